package memorymatch

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

type Mode string

const (
	Relaxed Mode = "relaxed"
	Speed   Mode = "speed"
)

type Status string

const (
	StatusActive Status = "active"
	StatusWon    Status = "won"
	StatusLost   Status = "lost"
)

// time limits of the speed mode per difficulty
var speedLimits = map[int]time.Duration{
	4: 60 * time.Second,
	6: 150 * time.Second,
	8: 240 * time.Second,
}

var (
	ErrInvalidDifficulty = errors.New("difficulty must be 4, 6 or 8")
	ErrUnknownTheme      = errors.New("unknown theme")
	ErrInvalidMode       = errors.New("unknown mode")
	ErrNotEnoughValues   = errors.New("theme has not enough values")
)

type Card struct {
	ID      int    `json:"id"`
	Value   string `json:"value"`
	Flipped bool   `json:"flipped"`
	Matched bool   `json:"matched"`
}

type Options struct {
	Difficulty int
	Theme      Theme
	Mode       Mode
}

// Pairs - number of card pairs on a difficulty x difficulty grid.
func Pairs(difficulty int) int {
	return difficulty * difficulty / 2
}

// GenerateCards deals every chosen theme value twice and shuffles the deck.
func GenerateCards(pairs int, theme Theme, rng *rand.Rand) ([]Card, error) {
	palette, ok := themes[theme]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTheme, theme)
	}

	if pairs > len(palette) {
		return nil, fmt.Errorf("%w: %s has %d, need %d", ErrNotEnoughValues, theme, len(palette), pairs)
	}

	values := make([]string, 0, 2*pairs)
	for _, idx := range rng.Perm(len(palette))[:pairs] {
		values = append(values, palette[idx], palette[idx])
	}

	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	cards := make([]Card, len(values))
	for i, value := range values {
		cards[i] = Card{ID: i, Value: value}
	}

	return cards, nil
}

type ResolveResult struct {
	First   int  `json:"first"`
	Second  int  `json:"second"`
	Matched bool `json:"matched"`
	Won     bool `json:"won"`
}

type Game struct {
	difficulty int
	theme      Theme
	mode       Mode
	cards      []Card
	faceUp     []int
	moves      int
	matches    int
	status     Status
	elapsed    time.Duration
	timeLeft   time.Duration
}

func NewGame(opts Options, rng *rand.Rand) (*Game, error) {
	if opts.Difficulty == 0 {
		opts.Difficulty = 4
	}
	limit, ok := speedLimits[opts.Difficulty]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDifficulty, opts.Difficulty)
	}

	if opts.Theme == "" {
		opts.Theme = Animals
	}

	switch opts.Mode {
	case "":
		opts.Mode = Relaxed
	case Relaxed, Speed:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, opts.Mode)
	}

	cards, err := GenerateCards(Pairs(opts.Difficulty), opts.Theme, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to deal cards: %w", err)
	}

	game := &Game{
		difficulty: opts.Difficulty,
		theme:      opts.Theme,
		mode:       opts.Mode,
		cards:      cards,
		status:     StatusActive,
	}

	if opts.Mode == Speed {
		game.timeLeft = limit
	}

	return game, nil
}

func (that *Game) Cards() []Card {
	return append([]Card(nil), that.cards...)
}

func (that *Game) Difficulty() int {
	return that.difficulty
}

func (that *Game) Theme() Theme {
	return that.theme
}

func (that *Game) Mode() Mode {
	return that.mode
}

func (that *Game) Moves() int {
	return that.moves
}

func (that *Game) Matches() int {
	return that.matches
}

func (that *Game) Status() Status {
	return that.status
}

func (that *Game) Elapsed() time.Duration {
	return that.elapsed
}

func (that *Game) TimeLeft() time.Duration {
	return that.timeLeft
}

func (that *Game) IsActive() bool {
	return that.status == StatusActive
}

// AwaitingResolve reports two face-up cards waiting for Resolve.
func (that *Game) AwaitingResolve() bool {
	return len(that.faceUp) == 2
}

// Flip turns a card face up. It is ignored on a finished game, a face-up or matched card,
// or while two cards wait to be resolved. The second card of a pair counts as a move.
func (that *Game) Flip(index int) bool {
	if !that.IsActive() || that.AwaitingResolve() {
		return false
	}

	if index < 0 || index >= len(that.cards) {
		return false
	}

	card := &that.cards[index]
	if card.Flipped || card.Matched {
		return false
	}

	card.Flipped = true
	that.faceUp = append(that.faceUp, index)

	if that.AwaitingResolve() {
		that.moves++
	}

	return true
}

// Resolve settles the two face-up cards: equal values stay matched, others turn back down.
func (that *Game) Resolve() (ResolveResult, bool) {
	if !that.AwaitingResolve() {
		return ResolveResult{}, false
	}

	first, second := &that.cards[that.faceUp[0]], &that.cards[that.faceUp[1]]
	result := ResolveResult{First: that.faceUp[0], Second: that.faceUp[1]}
	that.faceUp = that.faceUp[:0]

	if first.Value != second.Value {
		first.Flipped = false
		second.Flipped = false
		return result, true
	}

	first.Matched = true
	second.Matched = true
	that.matches++
	result.Matched = true

	// a countdown that expired while the pair was face up has already ended the game
	if that.status == StatusActive && that.matches == len(that.cards)/2 {
		that.status = StatusWon
		result.Won = true
	}

	return result, true
}

// Tick advances the clock by one second. It reports true when the speed countdown ran out.
func (that *Game) Tick() bool {
	if !that.IsActive() {
		return false
	}

	that.elapsed += time.Second

	if that.mode != Speed {
		return false
	}

	that.timeLeft -= time.Second
	if that.timeLeft <= 0 {
		that.timeLeft = 0
		that.status = StatusLost
		return true
	}

	return false
}
