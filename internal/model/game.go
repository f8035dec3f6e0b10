package model

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Yash182023/Chess-Mania/internal/engine"
)

const DefaultClockTime = 600 * time.Second

// Resolution says how a finished game ended.
type Resolution string

const (
	ResolveCheckmate   Resolution = "checkmate"
	ResolveStalemate   Resolution = "stalemate"
	ResolveResignation Resolution = "resignation"
	ResolveTimeout     Resolution = "timeout"
)

// The Game struct focuses on a single game's state and its observers
type Game struct {
	ID          string
	mu          sync.Mutex
	position    engine.Position
	history     engine.MoveHistory
	state       GameState
	connections *GameConnections // Connections just for this game
	clockTime   time.Duration
	whiteClock  *Clock
	blackClock  *Clock
	startedAt   time.Time
	finished    bool
	onFinish    func(GameState)
}

// GameState is the client view of a game. Version increases with every
// change, so clients can discard a state older than one already shown.
type GameState struct {
	ID              string         `json:"id"`
	Sound           string         `json:"sound"`
	Board           *BoardState    `json:"boardState"`
	FEN             string         `json:"fen"`
	ToMove          engine.Color   `json:"toMove"`
	MoveHistory     []MovePair     `json:"moveHistory"`
	Moves           []engine.Move  `json:"moves"`
	CapturedPieces  CapturedPieces `json:"capturedPieces"`
	Status          engine.Status  `json:"status"`
	IsCheck         bool           `json:"isCheck"`
	CheckSquare     *engine.Square `json:"checkSquare"`
	EnPassantTarget *engine.Square `json:"enPassantTarget"`
	Resolve         *Resolution    `json:"resolve"`
	Winner          *engine.Color  `json:"winner"`
	Players         Players        `json:"players"`
	LastMove        *engine.Move   `json:"lastMove"`
	StartedAt       time.Time      `json:"startedAt"`
	EndedAt         *time.Time     `json:"endedAt"`
	Version         uint64         `json:"version"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// CapturedPieces lists the pieces each side has taken.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func NewGame(id string) *Game {
	return NewGameWithClock(id, DefaultClockTime)
}

func NewGameWithClock(id string, clockTime time.Duration) *Game {
	g := &Game{
		ID:          id,
		connections: NewGameConnections(),
		clockTime:   clockTime,
	}
	g.state.Players = Players{
		White: ClientPlayer{Color: engine.White},
		Black: ClientPlayer{Color: engine.Black},
	}
	g.reset()
	return g
}

// reset puts the game back at the starting position, keeping the seats.
func (g *Game) reset() {
	g.position = engine.NewPosition()
	g.history = engine.MoveHistory{}
	g.whiteClock = NewClock(g.clockTime)
	g.blackClock = NewClock(g.clockTime)
	g.startedAt = time.Now()
	g.finished = false

	players := g.state.Players
	g.state = GameState{
		ID:             g.ID,
		MoveHistory:    make([]MovePair, 0),
		CapturedPieces: newCapturedPieces(),
		Players:        players,
		StartedAt:      g.startedAt,
		Version:        g.state.Version,
	}
	g.refresh()
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

// OnFinish registers a callback run once each time the game ends. It runs
// outside the game lock.
func (g *Game) OnFinish(fn func(GameState)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onFinish = fn
}

// AddPlayer seats the player as White, then Black. A player already seated
// gets their existing color back.
func (g *Game) AddPlayer(playerID string) (engine.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	logrus.WithFields(logrus.Fields{"game": g.ID, "player": playerID}).Debug("adding player")

	if c, ok := g.colorOf(playerID); ok {
		return c, nil
	}
	if !g.state.Players.White.Seated {
		g.state.Players.White = ClientPlayer{ID: playerID, Color: engine.White, Seated: true}
		g.state.Version++
		return engine.White, nil
	}
	if !g.state.Players.Black.Seated {
		g.state.Players.Black = ClientPlayer{ID: playerID, Color: engine.Black, Seated: true}
		g.state.Version++
		return engine.Black, nil
	}
	return engine.White, ErrGameFull
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

// Position returns the current position. Positions are values, so the
// caller may use it freely.
func (g *Game) Position() engine.Position {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position
}

func (g *Game) History() []engine.Move {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.history.Moves()
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) colorOf(playerID string) (engine.Color, bool) {
	if playerID == "" {
		return engine.White, false
	}
	if g.state.Players.White.Seated && g.state.Players.White.ID == playerID {
		return engine.White, true
	}
	if g.state.Players.Black.Seated && g.state.Players.Black.ID == playerID {
		return engine.Black, true
	}
	return engine.White, false
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return !g.state.Players.White.Seated || !g.state.Players.Black.Seated
}

// LegalMoves returns the destinations available to the piece on sq. Only
// pieces of the side to move have moves, and none do once the game is over.
func (g *Game) LegalMoves(sq engine.Square) []engine.Square {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return nil
	}
	piece, ok := g.position.PieceAt(sq)
	if !ok || piece.Color != g.position.SideToMove() {
		return nil
	}
	return engine.LegalMoves(g.position, sq)
}

func (g *Game) MakeMove(playerID string, move engine.Move) error {
	g.mu.Lock()
	err := g.makeMove(playerID, move)
	state, finished := g.snapshot(), g.takeFinished()
	onFinish := g.onFinish
	g.mu.Unlock()

	if finished && onFinish != nil {
		onFinish(state)
	}
	if err == nil || finished {
		go g.connections.broadcast(g.ID, state)
	}
	return err
}

func (g *Game) makeMove(playerID string, move engine.Move) error {
	log := logrus.WithFields(logrus.Fields{"game": g.ID, "player": playerID, "move": move})
	log.Debug("making move")

	if g.state.Resolve != nil {
		return ErrGameOver
	}
	color, ok := g.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if color != g.position.SideToMove() {
		return ErrNotYourTurn
	}
	piece, ok := g.position.PieceAt(move.From)
	if !ok {
		return ErrNoPiece
	}
	if piece.Color != color {
		return fmt.Errorf("%w: piece on %v belongs to %v", ErrNotYourTurn, move.From, piece.Color)
	}
	if !containsSquare(engine.LegalMoves(g.position, move.From), move.To) {
		return fmt.Errorf("%w: %v", ErrIllegalMove, move)
	}

	clock := g.clock(color)
	clock.Stop()
	if clock.Expired() {
		log.Info("flag fell before the move")
		g.finish(ResolveTimeout, colorPtr(color.Opposite()))
		return fmt.Errorf("%w: time expired", ErrGameOver)
	}

	if err := g.executeMove(piece, move); err != nil {
		return err
	}
	if g.state.Resolve == nil {
		g.clock(g.position.SideToMove()).Start()
	}
	return nil
}

func (g *Game) executeMove(piece engine.Piece, move engine.Move) error {
	ply := &Ply{
		Piece: newPiece(piece, move.From),
		From:  move.From,
		To:    move.To,
	}
	if victim, ok := g.position.PieceAt(move.To); ok {
		ply.CapturedPiece = newPiece(victim, move.To)
	} else if ep, ok := g.position.EnPassantTarget(); ok && piece.Kind == engine.Pawn && move.To == ep {
		sq := engine.Square{Row: move.From.Row, Col: move.To.Col}
		if victim, ok := g.position.PieceAt(sq); ok {
			ply.CapturedPiece = newPiece(victim, sq)
			ply.EnPassant = true
		}
	}

	next, err := engine.ApplyMove(g.position, move)
	if err != nil {
		return err
	}
	if promoted, _ := next.PieceAt(move.To); promoted.Kind != piece.Kind {
		ply.Promotion = promoted.Kind
	}

	g.position = next
	g.history.Append(move)
	g.recordPly(piece.Color, ply)

	g.state.Sound = "move"
	if ply.CapturedPiece != nil {
		g.state.Sound = "capture"
	}

	g.refresh()
	switch g.state.Status {
	case engine.Checkmate:
		g.finish(ResolveCheckmate, colorPtr(piece.Color))
	case engine.Stalemate:
		g.finish(ResolveStalemate, nil)
	}
	if g.state.IsCheck {
		g.state.Sound = "check"
	}
	return nil
}

func (g *Game) recordPly(color engine.Color, ply *Ply) {
	if ply.CapturedPiece != nil {
		switch color {
		case engine.White:
			g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, *ply.CapturedPiece)
		case engine.Black:
			g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, *ply.CapturedPiece)
		}
	}

	last := len(g.state.MoveHistory) - 1
	if color == engine.White || last < 0 || g.state.MoveHistory[last].BlackPly != nil {
		pair := MovePair{}
		if color == engine.White {
			pair.WhitePly = ply
		} else {
			pair.BlackPly = ply
		}
		g.state.MoveHistory = append(g.state.MoveHistory, pair)
		return
	}
	g.state.MoveHistory[last].BlackPly = ply
}

// Resign ends the game in favor of the opponent.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	var err error
	color, ok := g.colorOf(playerID)
	switch {
	case !ok:
		err = ErrNotInGame
	case g.state.Resolve != nil:
		err = ErrGameOver
	default:
		g.finish(ResolveResignation, colorPtr(color.Opposite()))
	}
	state, finished := g.snapshot(), g.takeFinished()
	onFinish := g.onFinish
	g.mu.Unlock()

	if finished && onFinish != nil {
		onFinish(state)
	}
	if err == nil {
		go g.connections.broadcast(g.ID, state)
	}
	return err
}

// Reset starts a new game between the same players.
func (g *Game) Reset(playerID string) error {
	g.mu.Lock()
	if _, ok := g.colorOf(playerID); !ok {
		g.mu.Unlock()
		return ErrNotInGame
	}
	logrus.WithFields(logrus.Fields{"game": g.ID, "player": playerID}).Info("resetting game")
	g.reset()
	state := g.snapshot()
	g.mu.Unlock()

	go g.connections.broadcast(g.ID, state)
	return nil
}

// finish records the result; winner is nil for a draw. Callers hold g.mu.
func (g *Game) finish(res Resolution, winner *engine.Color) {
	g.state.Version++
	g.whiteClock.Stop()
	g.blackClock.Stop()
	now := time.Now()
	g.state.Resolve = &res
	g.state.Winner = winner
	g.state.EndedAt = &now
	g.finished = true
	logrus.WithFields(logrus.Fields{
		"game":    g.ID,
		"resolve": res,
		"moves":   g.history.Len(),
	}).Info("game finished")
}

// takeFinished reports a newly finished game once.
func (g *Game) takeFinished() bool {
	f := g.finished
	g.finished = false
	return f
}

// refresh recomputes the position-derived fields of the state.
func (g *Game) refresh() {
	g.state.Version++
	pos := g.position
	toMove := pos.SideToMove()

	g.state.Board = newBoardState(pos)
	g.state.FEN = pos.FEN()
	g.state.ToMove = toMove
	g.state.Status = engine.Classify(pos)
	g.state.IsCheck = engine.IsInCheck(pos, toMove)
	g.state.CheckSquare = nil
	if g.state.IsCheck {
		if sq, ok := engine.FindKing(pos, toMove); ok {
			g.state.CheckSquare = &sq
		}
	}
	g.state.EnPassantTarget = nil
	if ep, ok := pos.EnPassantTarget(); ok {
		g.state.EnPassantTarget = &ep
	}
	g.state.Moves = g.history.Moves()
	g.state.LastMove = nil
	if last, ok := g.history.Last(); ok {
		g.state.LastMove = &last
	}
}

// snapshot copies the state so it can leave the lock.
func (g *Game) snapshot() GameState {
	s := g.state
	s.Players.White.TimeLeft = g.whiteClock.deciseconds()
	s.Players.Black.TimeLeft = g.blackClock.deciseconds()
	s.MoveHistory = make([]MovePair, len(g.state.MoveHistory))
	copy(s.MoveHistory, g.state.MoveHistory)
	s.CapturedPieces = CapturedPieces{
		White: append([]Piece(nil), g.state.CapturedPieces.White...),
		Black: append([]Piece(nil), g.state.CapturedPieces.Black...),
	}
	s.Moves = append([]engine.Move{}, g.state.Moves...)
	return s
}

func colorPtr(c engine.Color) *engine.Color {
	return &c
}

func (g *Game) clock(c engine.Color) *Clock {
	if c == engine.White {
		return g.whiteClock
	}
	return g.blackClock
}

func containsSquare(squares []engine.Square, target engine.Square) bool {
	for _, sq := range squares {
		if sq == target {
			return true
		}
	}
	return false
}

func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	log := logrus.WithFields(logrus.Fields{"game": g.ID, "player": playerID, "conn": connID(conn)})

	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	state := g.snapshot()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrUnauthorized
	}

	if !g.connections.add(g.ID, playerID, conn, state) {
		log.Debug("rejected duplicate connection")
		return nil
	}
	log.Info("registered connection")
	return nil
}

func (g *Game) isPlayerInGame(playerID string) bool {
	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	logrus.WithFields(logrus.Fields{"game": g.ID, "player": playerID}).Debug("unregistering connection")
	g.connections.remove(playerID, conn)
}

func (g *Game) ConnectionCount() int {
	return g.connections.Count()
}
