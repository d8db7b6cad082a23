package models

// Event is the on-disk record of a single event under input/events.
type Event struct {
	Name       string                     `json:"name"`
	Date       string                     `json:"date"`
	Rounds     int                        `json:"rounds"`
	PlayerInfo map[string]PlayerEventInfo `json:"player_info"`
	Matches    []Match                    `json:"matches"`
}

type PlayerEventInfo struct {
	Deck     string `json:"deck"`
	Decklist string `json:"decklist"`
}

type Match struct {
	Player1 string `json:"player_1"`
	Player2 string `json:"player_2"`
	Result  string `json:"result"`
}
