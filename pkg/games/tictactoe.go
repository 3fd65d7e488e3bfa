package games

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/keygrid/pkg/hud"
	"github.com/cbodonnell/keygrid/pkg/keypad"
)

const NameTicTacToe = "Tic-Tac-Toe"

// The bottom nine keys form the board; the top row shows whose turn it is.
var (
	tttGridKeys = []int{3, 4, 5, 6, 7, 8, 9, 10, 11}

	tttWinCombos = [][3]int{
		{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
		{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
		{0, 4, 8}, {2, 4, 6},
	}

	tttEmptyColor  = keypad.RGB{R: 30, G: 30, B: 30}
	tttP1Indicator = keypad.RGB{R: 255, G: 50, B: 50}
	tttP2Indicator = keypad.RGB{R: 50, G: 50, B: 255}
)

type tttPhase int

const (
	tttIntro tttPhase = iota
	tttPlaying
	tttCelebrate
	tttRematch
	tttDone
)

// TicTacToe is the local two player classic on the bottom 3x3 keys. Red
// moves first; any key starts a rematch once a game ends. The encoder
// button leaves without a game over screen.
type TicTacToe struct {
	Base
	phase   tttPhase
	board   [9]int
	player  int
	p1Wins  int
	p2Wins  int
	draws   int
}

var _ Session = (*TicTacToe)(nil)

func NewTicTacToe(dev Devices, rng *rand.Rand) *TicTacToe {
	g := &TicTacToe{Base: NewBase(NameTicTacToe, dev, rng)}
	g.Reset()
	return g
}

func (g *TicTacToe) Reset() {
	g.resetBase()
	g.phase = tttIntro
	g.board = [9]int{}
	g.player = 1
	g.p1Wins = 0
	g.p2Wins = 0
	g.draws = 0
}

func (g *TicTacToe) Start(now time.Time) {
	g.Reset()
	hud.Title(g.dev.Display, g.name)
	g.cue.Play(now,
		Cue{Wait: 500 * time.Millisecond},
		Cue{Run: Do(func() {
			g.dev.Display.Clear()
			g.dev.Display.ShowText("2 Players!", 30, 10, 1)
			g.dev.Display.ShowText("RED vs BLUE", 25, 25, 1)
			g.dev.Display.ShowText("Use bottom 9 keys", 5, 45, 1)
		}), Wait: 2500 * time.Millisecond},
		Cue{Run: Do(g.startNewGame)},
	)
}

func (g *TicTacToe) startNewGame() {
	g.phase = tttPlaying
	g.board = [9]int{}
	g.player = 1
	g.showStatus()
	g.renderBoard()
}

func (g *TicTacToe) renderBoard() {
	g.dev.Lights.ClearAll()
	for i, key := range tttGridKeys {
		switch g.board[i] {
		case 1:
			g.dev.Lights.SetKey(key, keypad.Red)
		case 2:
			g.dev.Lights.SetKey(key, keypad.Blue)
		default:
			g.dev.Lights.SetKey(key, tttEmptyColor)
		}
	}
	if g.phase == tttPlaying {
		if g.player == 1 {
			g.dev.Lights.SetKey(0, tttP1Indicator)
		} else {
			g.dev.Lights.SetKey(2, tttP2Indicator)
		}
	}
}

func (g *TicTacToe) showStatus() {
	g.dev.Display.Clear()
	g.dev.Display.ShowText("TIC-TAC-TOE", 20, 0, 1)
	if g.phase == tttPlaying {
		if g.player == 1 {
			g.dev.Display.ShowText("RED's turn", 30, 25, 1)
		} else {
			g.dev.Display.ShowText("BLUE's turn", 25, 25, 1)
		}
	}
	g.dev.Display.ShowText(fmt.Sprintf("R:%d B:%d D:%d", g.p1Wins, g.p2Wins, g.draws), 10, 52, 1)
}

func (g *TicTacToe) Update(now time.Time) bool {
	g.cue.Step(now)
	return g.phase != tttDone
}

func (g *TicTacToe) HandleKey(now time.Time, event keypad.Event) {
	if !event.Pressed {
		return
	}

	switch g.phase {
	case tttRematch:
		g.startNewGame()
	case tttPlaying:
		g.playMove(now, event.Key)
	}
}

func (g *TicTacToe) playMove(now time.Time, key int) {
	idx := -1
	for i, gridKey := range tttGridKeys {
		if gridKey == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		g.cue.Play(now, FlashKey(g.dev.Lights, key, keypad.White, 1, 100*time.Millisecond, 0)...)
		return
	}
	if g.board[idx] != 0 {
		g.dev.Sound.PlayTone(200, 100*time.Millisecond)
		return
	}

	g.board[idx] = g.player
	if g.player == 1 {
		g.dev.Sound.PlayTone(440, 100*time.Millisecond)
	} else {
		g.dev.Sound.PlayTone(330, 100*time.Millisecond)
	}

	// A full board with a winning move is still a win, so the win check
	// runs before the draw check.
	if winner := g.checkWinner(); winner != 0 {
		g.handleWin(now, winner)
		return
	}
	if g.boardFull() {
		g.handleDraw(now)
		return
	}

	if g.player == 1 {
		g.player = 2
	} else {
		g.player = 1
	}
	g.showStatus()
	g.renderBoard()
}

func (g *TicTacToe) checkWinner() int {
	for _, combo := range tttWinCombos {
		a, b, c := combo[0], combo[1], combo[2]
		if g.board[a] != 0 && g.board[a] == g.board[b] && g.board[b] == g.board[c] {
			return g.board[a]
		}
	}
	return 0
}

func (g *TicTacToe) boardFull() bool {
	for _, cell := range g.board {
		if cell == 0 {
			return false
		}
	}
	return true
}

func (g *TicTacToe) winningCombo(winner int) [3]int {
	for _, combo := range tttWinCombos {
		if g.board[combo[0]] == winner && g.board[combo[1]] == winner && g.board[combo[2]] == winner {
			return combo
		}
	}
	return [3]int{}
}

func (g *TicTacToe) handleWin(now time.Time, winner int) {
	g.phase = tttCelebrate
	winText := "RED WINS!"
	if winner == 1 {
		g.p1Wins++
	} else {
		g.p2Wins++
		winText = "BLUE WINS!"
	}
	g.dev.Sound.PlayCorrect()

	combo := g.winningCombo(winner)
	var cues []Cue
	for i := 0; i < 3; i++ {
		cues = append(cues,
			Cue{Run: Do(func() {
				for _, idx := range combo {
					g.dev.Lights.SetKey(tttGridKeys[idx], keypad.Green)
				}
			}), Wait: 300 * time.Millisecond},
			Cue{Run: Do(g.renderBoard), Wait: 200 * time.Millisecond},
		)
	}
	cues = append(cues, Cue{Run: Do(func() {
		g.dev.Display.Clear()
		hud.CenteredText(g.dev.Display, winText, 15, 2)
		g.dev.Display.ShowText("Press to play again", 0, 45, 1)
		g.phase = tttRematch
	})})
	g.cue.Play(now, cues...)
}

func (g *TicTacToe) handleDraw(now time.Time) {
	g.phase = tttCelebrate
	g.draws++

	cues := FlashAll(g.dev.Lights, keypad.Yellow, 2, 200*time.Millisecond, 200*time.Millisecond)
	cues = append(cues, Cue{Run: Do(func() {
		g.renderBoard()
		g.dev.Display.Clear()
		hud.CenteredText(g.dev.Display, "DRAW!", 15, 2)
		g.dev.Display.ShowText("Press to play again", 0, 45, 1)
		g.phase = tttRematch
	})})
	g.cue.Play(now, cues...)
}

// HandleEncoderPress leaves the table immediately.
func (g *TicTacToe) HandleEncoderPress(now time.Time) Action {
	g.phase = tttDone
	return ActionQuit
}
