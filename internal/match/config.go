package match

import "github.com/herohde/fastbench/internal/adjudication"

// Config bundles the adjudication thresholds a Match consults every ply, per spec.md
// §4.4's "-draw"/"-resign"/"-maxmoves"/"-tb*" CLI surface (spec.md §6). A zero-value
// sub-config (MoveCount == 0) disables that tracker.
type Config struct {
	Draw     adjudication.DrawConfig
	Resign   adjudication.ResignConfig
	MaxMoves int // 0 disables max-moves adjudication
	Tb       adjudication.TbConfig
}
