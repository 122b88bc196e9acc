package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState()

	assert.Equal(t, [2]float64{150, 150}, s.Paddles)
	assert.Equal(t, [2]int{0, 0}, s.Scores)
	assert.Equal(t, float64(300), s.Ball.X)
	assert.Equal(t, float64(200), s.Ball.Y)
	assert.Equal(t, float64(5), s.Ball.SpeedX)
	assert.Equal(t, float64(5), s.Ball.SpeedY)
}

func TestFieldWiderThanPaddleZones(t *testing.T) {
	// Both boundary tests assume the ball can never be behind the left and
	// right paddle at once.
	assert.Greater(t, FieldWidth-PaddleWidth-CollisionMargin, PaddleWidth+CollisionMargin)
}

func TestStepAdvancesBall(t *testing.T) {
	s := NewState()
	s.Step()

	assert.Equal(t, float64(305), s.Ball.X)
	assert.Equal(t, float64(205), s.Ball.Y)
}

func TestStepBouncesOffWalls(t *testing.T) {
	tests := []struct {
		name   string
		y      float64
		speedY float64
	}{
		{"top wall", 3, -5},
		{"bottom wall", 397, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.Ball.Y = tt.y
			s.Ball.SpeedY = tt.speedY

			s.Step()

			assert.Equal(t, -tt.speedY, s.Ball.SpeedY)
		})
	}
}

func TestStepLeftPaddleBounce(t *testing.T) {
	s := NewState()
	s.Ball = Ball{X: 5, Y: 100, SpeedX: -5, SpeedY: 0}
	s.Paddles[0] = 50 // paddle spans [50,150], ball at y=100 is covered

	scored := s.Step()

	assert.Equal(t, NoScore, scored)
	assert.Equal(t, float64(5), s.Ball.SpeedX)
	assert.Equal(t, [2]int{0, 0}, s.Scores)
}

func TestStepLeftPaddleMiss(t *testing.T) {
	s := NewState()
	s.Ball = Ball{X: 5, Y: 100, SpeedX: -5, SpeedY: 0}
	s.Paddles[0] = 200 // paddle spans [200,300], ball at y=100 is missed

	scored := s.Step()

	assert.Equal(t, 1, scored)
	assert.Equal(t, [2]int{0, 1}, s.Scores)
	assert.Equal(t, float64(300), s.Ball.X)
	assert.Equal(t, float64(200), s.Ball.Y)
	// Direction is preserved across the reset, vertical speed returns to
	// the default.
	assert.Equal(t, float64(-5), s.Ball.SpeedX)
	assert.Equal(t, float64(5), s.Ball.SpeedY)
}

func TestStepRightPaddleBounce(t *testing.T) {
	s := NewState()
	s.Ball = Ball{X: 578, Y: 120, SpeedX: 5, SpeedY: 0}
	s.Paddles[1] = 100

	scored := s.Step()

	assert.Equal(t, NoScore, scored)
	assert.Equal(t, float64(-5), s.Ball.SpeedX)
}

func TestStepRightPaddleMiss(t *testing.T) {
	s := NewState()
	s.Ball = Ball{X: 578, Y: 120, SpeedX: 5, SpeedY: 0}
	s.Paddles[1] = 250

	scored := s.Step()

	assert.Equal(t, 0, scored)
	assert.Equal(t, [2]int{1, 0}, s.Scores)
	assert.Equal(t, float64(300), s.Ball.X)
	assert.Equal(t, float64(5), s.Ball.SpeedX)
}

func TestStepPaddleEdgesInclusive(t *testing.T) {
	for _, y := range []float64{50, 150} {
		s := NewState()
		s.Ball = Ball{X: 5, Y: y, SpeedX: -5, SpeedY: 0}
		s.Paddles[0] = 50

		scored := s.Step()

		assert.Equal(t, NoScore, scored, "ball at paddle edge y=%v should bounce", y)
	}
}

func TestResetClearsScoresAndBall(t *testing.T) {
	s := NewState()
	s.Scores = [2]int{7, 3}
	s.Ball = Ball{X: 12, Y: 350, SpeedX: -5, SpeedY: -5}
	s.Paddles = [2]float64{20, 330}

	s.Reset()

	assert.Equal(t, [2]int{0, 0}, s.Scores)
	assert.Equal(t, Ball{X: 300, Y: 200, SpeedX: 5, SpeedY: 5}, s.Ball)
	// Paddles stay where the players put them.
	assert.Equal(t, [2]float64{20, 330}, s.Paddles)
}

func TestScoresAccumulate(t *testing.T) {
	s := NewState()
	s.Paddles[0] = 300

	for i := 0; i < 3; i++ {
		s.Ball = Ball{X: 5, Y: 100, SpeedX: -5, SpeedY: 0}
		s.Step()
	}

	assert.Equal(t, [2]int{0, 3}, s.Scores)
}
