package match

import (
	"fmt"
	"sort"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// MoveResult is the outcome of applying one move to a position.
type MoveResult struct {
	FEN         string
	UCI         string
	SAN         string
	Result      Result
	Termination Termination
}

type coordinateMove struct {
	from  string
	to    string
	promo nchess.PieceType
}

// ApplyMove validates moveText against the full legal-move set of fen and applies it.
// A nil promotion means no hint was supplied.
func ApplyMove(fen, moveText string, promotion *string) (MoveResult, error) {
	pos, err := decodePosition(fen)
	if err != nil {
		return MoveResult{}, invalidMove("position cannot be decoded")
	}

	uci := normalizeMoveText(moveText, promotion)
	cand, err := parseCoordinates(uci)
	if err != nil {
		return MoveResult{}, err
	}

	mv, ok := findLegal(pos, cand)
	if !ok {
		return MoveResult{}, invalidMove("move is illegal in current position")
	}

	san := Notation(pos, mv)
	mover := pos.Turn()
	next := pos.Update(&mv)
	if next == nil {
		return MoveResult{}, invalidMove("move is illegal in current position")
	}

	out := MoveResult{FEN: next.String(), UCI: uci, SAN: san}
	switch next.Status() {
	case nchess.Checkmate:
		out.Result = WinFor(colorFrom(mover))
		out.Termination = TerminationCheckmate
	case nchess.Stalemate:
		out.Result = ResultDraw
		out.Termination = TerminationStalemate
	}
	return out, nil
}

// LegalMoves returns every legal move of the side to move in canonical order:
// ascending source square index (a1=0 … h8=63), then destination index, then
// promotion piece (none, queen, rook, bishop, knight).
func LegalMoves(pos *nchess.Position) []nchess.Move {
	if pos == nil {
		return nil
	}
	moves := append([]nchess.Move(nil), pos.ValidMoves()...)
	sort.Slice(moves, func(i, j int) bool {
		a, b := moves[i], moves[j]
		if a.S1() != b.S1() {
			return a.S1() < b.S1()
		}
		if a.S2() != b.S2() {
			return a.S2() < b.S2()
		}
		return promoRank(a.Promo()) < promoRank(b.Promo())
	})
	return moves
}

// LegalMovesFEN is LegalMoves for a serialized position.
func LegalMovesFEN(fen string) ([]nchess.Move, error) {
	pos, err := decodePosition(fen)
	if err != nil {
		return nil, err
	}
	return LegalMoves(pos), nil
}

// UCI renders a move in coordinate form.
func UCI(mv nchess.Move) string {
	s := mv.S1().String() + mv.S2().String()
	if l := promoLetter(mv.Promo()); l != "" {
		s += l
	}
	return s
}

func decodePosition(fen string) (*nchess.Position, error) {
	opt, err := nchess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, fmt.Errorf("decode fen: %w", err)
	}
	pos := nchess.NewGame(opt).Position()
	if pos == nil {
		return nil, fmt.Errorf("decode fen: empty position")
	}
	return pos, nil
}

func normalizeMoveText(moveText string, promotion *string) string {
	uci := strings.ToLower(strings.TrimSpace(moveText))
	if len(uci) == 4 && promotion != nil {
		uci += promotionHintLetter(*promotion)
	}
	return uci
}

func promotionHintLetter(hint string) string {
	h := strings.ToLower(strings.TrimSpace(hint))
	switch h {
	case "":
		return "q"
	case "queen":
		return "q"
	case "rook":
		return "r"
	case "bishop":
		return "b"
	case "knight":
		return "n"
	}
	return h[:1]
}

func parseCoordinates(uci string) (coordinateMove, error) {
	if len(uci) != 4 && len(uci) != 5 {
		return coordinateMove{}, invalidMove("expected source and destination squares like e2e4")
	}
	if !validSquare(uci[0:2]) || !validSquare(uci[2:4]) {
		return coordinateMove{}, invalidMove("malformed square")
	}
	cm := coordinateMove{from: uci[0:2], to: uci[2:4], promo: nchess.NoPieceType}
	if len(uci) == 5 {
		switch uci[4] {
		case 'q':
			cm.promo = nchess.Queen
		case 'r':
			cm.promo = nchess.Rook
		case 'b':
			cm.promo = nchess.Bishop
		case 'n':
			cm.promo = nchess.Knight
		default:
			return coordinateMove{}, invalidMove("unknown promotion piece")
		}
	}
	return cm, nil
}

func validSquare(s string) bool {
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8'
}

func findLegal(pos *nchess.Position, cand coordinateMove) (nchess.Move, bool) {
	for _, mv := range LegalMoves(pos) {
		if mv.S1().String() == cand.from && mv.S2().String() == cand.to && mv.Promo() == cand.promo {
			return mv, true
		}
	}
	return nchess.Move{}, false
}

func promoRank(p nchess.PieceType) int {
	switch p {
	case nchess.Queen:
		return 1
	case nchess.Rook:
		return 2
	case nchess.Bishop:
		return 3
	case nchess.Knight:
		return 4
	default:
		return 0
	}
}

func promoLetter(p nchess.PieceType) string {
	switch p {
	case nchess.Queen:
		return "q"
	case nchess.Rook:
		return "r"
	case nchess.Bishop:
		return "b"
	case nchess.Knight:
		return "n"
	default:
		return ""
	}
}

func colorFrom(c nchess.Color) Color {
	if c == nchess.White {
		return White
	}
	return Black
}
