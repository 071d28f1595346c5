package entity

// Names of the games a session can run.
const (
	GameNumberGuess = "numberguess"
	GameTicTacToe   = "tictactoe"
	Game2048        = "2048"
	GameTetris      = "tetris"
	GameMemoryMatch = "memorymatch"
)

// Storage keys of the persisted statistics objects, one key per object.
const (
	KeyGuessBestScore  = "guessNumberBestScore"
	KeyTicTacToeScores = "ticTacToeScores"
	KeyTicTacToeStats  = "ticTacToeStats"
	KeyMemoryStats     = "memoryMatchStats"
	KeyGame2048Stats   = "game2048Stats"
	KeyTetrisStats     = "tetrisStats"
)

// TicTacToeScores keeps the shape the browser suite has always written.
type TicTacToeScores struct {
	X    int `json:"X"`
	O    int `json:"O"`
	Draw int `json:"draw"`
}

type BotRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

type TicTacToeStats struct {
	GamesPlayed      int                  `json:"gamesPlayed"`
	TournamentsWon   map[string]int       `json:"tournamentsWon"`
	BotByDifficulty  map[string]BotRecord `json:"botByDifficulty"`
	LongestWinStreak int                  `json:"longestWinStreak"`
	CurrentStreak    int                  `json:"currentStreak"`
}

func NewTicTacToeStats() TicTacToeStats {
	return TicTacToeStats{
		TournamentsWon:  map[string]int{},
		BotByDifficulty: map[string]BotRecord{},
	}
}

type MemoryRecord struct {
	BestMoves   int `json:"bestMoves"`
	BestSeconds int `json:"bestSeconds"`
}

type MemoryStats struct {
	GamesPlayed  int                     `json:"gamesPlayed"`
	GamesWon     int                     `json:"gamesWon"`
	ByDifficulty map[string]MemoryRecord `json:"byDifficulty"`
}

func NewMemoryStats() MemoryStats {
	return MemoryStats{ByDifficulty: map[string]MemoryRecord{}}
}

type Game2048Stats struct {
	GamesPlayed  int          `json:"gamesPlayed"`
	GamesWon     int          `json:"gamesWon"`
	BestScore    int          `json:"bestScore"`
	BestTile     int          `json:"bestTile"`
	TotalMoves   int          `json:"totalMoves"`
	Achievements map[int]bool `json:"achievements"`
}

func NewGame2048Stats() Game2048Stats {
	return Game2048Stats{Achievements: map[int]bool{}}
}

type TetrisStats struct {
	GamesPlayed int `json:"gamesPlayed"`
	BestScore   int `json:"bestScore"`
	BestLines   int `json:"bestLines"`
	BestLevel   int `json:"bestLevel"`
	TotalLines  int `json:"totalLines"`
	Tetrises    int `json:"tetrises"`
}

// RecordBotGame adds a finished game against the bot; result is "win", "loss" or "draw" from the human's side.
func (that *TicTacToeStats) RecordBotGame(difficulty, result string) {
	if that.BotByDifficulty == nil {
		that.BotByDifficulty = map[string]BotRecord{}
	}

	record := that.BotByDifficulty[difficulty]
	switch result {
	case "win":
		record.Wins++
		that.CurrentStreak++
		if that.CurrentStreak > that.LongestWinStreak {
			that.LongestWinStreak = that.CurrentStreak
		}
	case "loss":
		record.Losses++
		that.CurrentStreak = 0
	default:
		record.Draws++
		that.CurrentStreak = 0
	}
	that.BotByDifficulty[difficulty] = record
}

func (that *TicTacToeStats) RecordTournament(champion string) {
	if that.TournamentsWon == nil {
		that.TournamentsWon = map[string]int{}
	}
	that.TournamentsWon[champion]++
}

// RecordWin keeps the best moves and the best time independently.
func (that *MemoryStats) RecordWin(difficulty string, moves, seconds int) {
	if that.ByDifficulty == nil {
		that.ByDifficulty = map[string]MemoryRecord{}
	}

	that.GamesWon++
	record := that.ByDifficulty[difficulty]
	if record.BestMoves == 0 || moves < record.BestMoves {
		record.BestMoves = moves
	}
	if seconds > 0 && (record.BestSeconds == 0 || seconds < record.BestSeconds) {
		record.BestSeconds = seconds
	}
	that.ByDifficulty[difficulty] = record
}

// Unlock reports whether the achievement was newly unlocked.
func (that *Game2048Stats) Unlock(tile int) bool {
	if that.Achievements == nil {
		that.Achievements = map[int]bool{}
	}
	if that.Achievements[tile] {
		return false
	}
	that.Achievements[tile] = true
	return true
}
