package game

// Field and paddle dimensions are shared with the client renderer. The
// collision math below assumes them; changing one side without the other
// breaks the game, so they are fixed constants rather than configuration.
const (
	FieldWidth   = 600
	FieldHeight  = 400
	PaddleWidth  = 10
	PaddleHeight = 100

	// CollisionMargin widens the paddle boundary test by the ball's visual
	// radius so the bounce happens at the paddle face, not the ball center.
	CollisionMargin = 10

	// TickRate is the fixed simulation frequency in ticks per second.
	TickRate = 60

	paddleStartY = 150
	defaultSpeed = 5
	centerX      = FieldWidth / 2
	centerY      = FieldHeight / 2
)

// NoScore is returned by Step when the tick produced no scoring event.
const NoScore = -1

// Ball is the authoritative ball state. Only Step mutates it.
type Ball struct {
	X      float64
	Y      float64
	SpeedX float64
	SpeedY float64
}

// State holds everything the simulation advances each tick: the two paddle
// offsets (index = player slot), the ball, and the running score.
type State struct {
	Paddles [2]float64
	Ball    Ball
	Scores  [2]int
}

// NewState returns the default pre-game state: paddles at their starting
// offset, ball at field center moving down-right.
func NewState() State {
	return State{
		Paddles: [2]float64{paddleStartY, paddleStartY},
		Ball:    Ball{X: centerX, Y: centerY, SpeedX: defaultSpeed, SpeedY: defaultSpeed},
	}
}

// Step advances the state by exactly one fixed tick and returns the slot
// index of the player who scored, or NoScore.
//
// The two paddle boundary tests are mutually exclusive: the field is wider
// than both paddle zones combined, so the ball can only be behind one paddle
// at a time.
func (s *State) Step() int {
	s.Ball.X += s.Ball.SpeedX
	s.Ball.Y += s.Ball.SpeedY

	if s.Ball.Y <= 0 || s.Ball.Y >= FieldHeight {
		s.Ball.SpeedY = -s.Ball.SpeedY
	}

	if s.Ball.X <= PaddleWidth+CollisionMargin {
		if s.Ball.Y >= s.Paddles[0] && s.Ball.Y <= s.Paddles[0]+PaddleHeight {
			s.Ball.SpeedX = -s.Ball.SpeedX
		} else {
			s.Scores[1]++
			s.resetBall()
			return 1
		}
	} else if s.Ball.X >= FieldWidth-PaddleWidth-CollisionMargin {
		if s.Ball.Y >= s.Paddles[1] && s.Ball.Y <= s.Paddles[1]+PaddleHeight {
			s.Ball.SpeedX = -s.Ball.SpeedX
		} else {
			s.Scores[0]++
			s.resetBall()
			return 0
		}
	}

	return NoScore
}

// resetBall recenters the ball after a point. Horizontal direction is kept
// from before the point, vertical speed returns to the default.
func (s *State) resetBall() {
	s.Ball.X = centerX
	s.Ball.Y = centerY
	if s.Ball.SpeedX > 0 {
		s.Ball.SpeedX = defaultSpeed
	} else {
		s.Ball.SpeedX = -defaultSpeed
	}
	s.Ball.SpeedY = defaultSpeed
}

// Reset returns the state to a fresh match: scores cleared, ball recentered
// at default speed. Paddle offsets are left where the players have them.
func (s *State) Reset() {
	s.Scores = [2]int{0, 0}
	s.Ball = Ball{X: centerX, Y: centerY, SpeedX: defaultSpeed, SpeedY: defaultSpeed}
}
