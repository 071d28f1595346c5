package tictactoe

// Tournament - best-of-N series of games between X and O.
type Tournament struct {
	Rounds int            `json:"rounds"`
	Played int            `json:"played"`
	Wins   map[string]int `json:"wins"`
	Draws  int            `json:"draws"`
}

func NewTournament(rounds int) *Tournament {
	if rounds < 1 {
		rounds = 1
	}

	return &Tournament{
		Rounds: rounds,
		Wins:   map[string]int{PlayerX: 0, PlayerO: 0},
	}
}

// Target - wins needed to take the tournament.
func (that *Tournament) Target() int {
	return (that.Rounds + 1) / 2
}

// Record counts a finished game. Games recorded after the tournament is over are ignored.
func (that *Tournament) Record(winner string) {
	if that.Over() {
		return
	}

	that.Played++

	switch winner {
	case PlayerX, PlayerO:
		that.Wins[winner]++
	default:
		that.Draws++
	}
}

func (that *Tournament) Over() bool {
	target := that.Target()
	return that.Wins[PlayerX] >= target || that.Wins[PlayerO] >= target || that.Played >= that.Rounds
}

// Champion returns the mark with more round wins, PlayerTie on equal wins and "" while the tournament runs.
func (that *Tournament) Champion() string {
	if !that.Over() {
		return ""
	}

	switch x, o := that.Wins[PlayerX], that.Wins[PlayerO]; {
	case x > o:
		return PlayerX
	case o > x:
		return PlayerO
	default:
		return PlayerTie
	}
}
