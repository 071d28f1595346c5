package numberguess

import (
	"errors"

	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
)

const (
	MinNumber = 1
	MaxNumber = 100
)

type Outcome string

const (
	TooLow  Outcome = "too_low"
	TooHigh Outcome = "too_high"
	Correct Outcome = "correct"
)

type Tier string

const (
	VeryClose Tier = "very_close"
	Warm      Tier = "warm"
	Cold      Tier = "cold"
	VeryCold  Tier = "very_cold"
)

var ErrOutOfRange = errors.New("enter a valid number between 1 and 100")

type Result struct {
	Guess    int     `json:"guess"`
	Outcome  Outcome `json:"outcome"`
	Attempts int     `json:"attempts"`
	Min      int     `json:"min"`
	Max      int     `json:"max"`
}

type Hint struct {
	Tier     Tier `json:"tier"`
	Midpoint int  `json:"midpoint"`
	Min      int  `json:"min"`
	Max      int  `json:"max"`
}

// Game holds a hidden target and the feasible interval left by previous guesses.
type Game struct {
	target   int
	attempts int
	min      int
	max      int
	ended    bool
}

func NewGame(rng *rand.Rand) *Game {
	return newGame(MinNumber + rng.Intn(MaxNumber-MinNumber+1))
}

func newGame(target int) *Game {
	return &Game{
		target: target,
		min:    MinNumber,
		max:    MaxNumber,
	}
}

func (that *Game) Guess(guess int) (Result, error) {
	if that.ended {
		return Result{}, apperror.ErrGameFinished
	}

	if guess < MinNumber || guess > MaxNumber {
		return Result{}, ErrOutOfRange
	}

	that.attempts++

	result := Result{Guess: guess, Attempts: that.attempts}

	switch {
	case guess == that.target:
		result.Outcome = Correct
		that.ended = true
	case guess < that.target:
		result.Outcome = TooLow
		that.min = max(that.min, guess+1)
	default:
		result.Outcome = TooHigh
		that.max = min(that.max, guess-1)
	}

	result.Min, result.Max = that.min, that.max

	return result, nil
}

// SolverGuess - the next binary search probe.
func (that *Game) SolverGuess() int {
	return (that.min + that.max) / 2
}

func (that *Game) Hint() (Hint, error) {
	if that.ended {
		return Hint{}, apperror.ErrGameFinished
	}

	mid := that.SolverGuess()
	distance := that.target - mid
	if distance < 0 {
		distance = -distance
	}

	hint := Hint{Midpoint: mid, Min: that.min, Max: that.max}
	switch {
	case distance <= 5:
		hint.Tier = VeryClose
	case distance <= 15:
		hint.Tier = Warm
	case distance <= 30:
		hint.Tier = Cold
	default:
		hint.Tier = VeryCold
	}

	return hint, nil
}

func (that *Game) Attempts() int {
	return that.attempts
}

func (that *Game) Range() (int, int) {
	return that.min, that.max
}

func (that *Game) IsFinished() bool {
	return that.ended
}

// Target is only revealed once the game is over.
func (that *Game) Target() (int, bool) {
	if !that.ended {
		return 0, false
	}
	return that.target, true
}
