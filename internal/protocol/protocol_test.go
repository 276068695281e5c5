package protocol_test

import (
	"testing"

	"github.com/herohde/fastbench/internal/protocol"
	"github.com/herohde/fastbench/internal/rules"
	"github.com/stretchr/testify/assert"
)

func TestFromVariant(t *testing.T) {
	assert.Equal(t, protocol.UCI, protocol.FromVariant(rules.Standard))
	assert.Equal(t, protocol.UCI, protocol.FromVariant(rules.Chess960))
	assert.Equal(t, protocol.USI, protocol.FromVariant(rules.Shogi))
}

func TestUCIInitCommands(t *testing.T) {
	p := protocol.UCIProtocol()
	assert.Equal(t, "uci", p.InitCmd())
	assert.Equal(t, "uciok", p.InitOk())
	assert.Equal(t, "ucinewgame", p.NewGameCmd())
}

func TestUSIInitCommands(t *testing.T) {
	p := protocol.USIProtocol()
	assert.Equal(t, "usi", p.InitCmd())
	assert.Equal(t, "usiok", p.InitOk())
	assert.Equal(t, "isready", p.NewGameCmd())
}

func TestUCIPositionCmd(t *testing.T) {
	p := protocol.UCIProtocol()
	assert.Equal(t, "fen", p.FENKeyword())
	assert.Equal(t, "position startpos", p.PositionCmd("startpos", nil))
	assert.Equal(t,
		"position fen rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		p.PositionCmd("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", nil))
	assert.Equal(t, "position startpos moves e2e4 e7e5", p.PositionCmd("startpos", []string{"e2e4", "e7e5"}))
}

func TestUSIPositionCmd(t *testing.T) {
	p := protocol.USIProtocol()
	assert.Equal(t, "sfen", p.FENKeyword())
	assert.Equal(t, "position startpos moves 7g7f 3c3d", p.PositionCmd("startpos", []string{"7g7f", "3c3d"}))
}

func TestUCITimeParams(t *testing.T) {
	p := protocol.UCIProtocol()
	assert.Equal(t, "wtime", p.FirstPlayerTime())
	assert.Equal(t, "btime", p.SecondPlayerTime())
	assert.Equal(t, "winc", p.FirstPlayerInc())
	assert.Equal(t, "binc", p.SecondPlayerInc())
}

func TestUSITimeParams(t *testing.T) {
	p := protocol.USIProtocol()
	assert.Equal(t, "btime", p.FirstPlayerTime())
	assert.Equal(t, "wtime", p.SecondPlayerTime())
	assert.Equal(t, "binc", p.FirstPlayerInc())
	assert.Equal(t, "winc", p.SecondPlayerInc())
}

func TestOptionNameTranslation(t *testing.T) {
	uci := protocol.UCIProtocol()
	assert.Equal(t, "Hash", uci.TranslateOptionName("Hash"))

	usi := protocol.USIProtocol()
	assert.Equal(t, "USI_Hash", usi.TranslateOptionName("Hash"))
	assert.Equal(t, "USI_MultiPV", usi.TranslateOptionName("MultiPV"))
	assert.Equal(t, "Threads", usi.TranslateOptionName("Threads"))
}

func TestColorNames(t *testing.T) {
	uci := protocol.UCIProtocol()
	assert.Equal(t, "White", uci.FirstPlayerName())
	assert.Equal(t, "Black", uci.SecondPlayerName())

	usi := protocol.USIProtocol()
	assert.Equal(t, "Sente", usi.FirstPlayerName())
	assert.Equal(t, "Gote", usi.SecondPlayerName())
}

func TestBestmoveSpecialCases(t *testing.T) {
	uci := protocol.UCIProtocol()
	assert.False(t, uci.IsBestmoveWin("win"))
	assert.False(t, uci.IsBestmoveResign("resign"))

	usi := protocol.USIProtocol()
	assert.True(t, usi.IsBestmoveWin("win"))
	assert.True(t, usi.IsBestmoveResign("resign"))
	assert.False(t, usi.IsBestmoveWin("7g7f"))
	assert.False(t, usi.IsBestmoveResign("7g7f"))
}
