package kurakot

import (
	"encoding/json"
	"os"
	"path"
)

// LoadJson loads the GameData from a file.
func LoadJson(dir string) GameData {
	fileName := path.Join(dir, "data.json")
	jsdata, err := os.ReadFile(fileName)
	if err != nil {
		panic("no data.json")
	}
	var data GameData
	err = json.Unmarshal(jsdata, &data)
	if err != nil {
		panic("bad data.json: " + err.Error())
	}
	return data
}

// GameData is the JSON structure of the game data.
type GameData struct {
	Settings  Settings       `json:"settings"`
	Tiles     []TileTemplate `json:"tiles"`
	Cards     []MysteryCard  `json:"cards"`
	Questions []Question     `json:"questions"`
}

// Settings is things that control the game, and may be overriden per game.
type Settings struct {
	StartBudget int `json:"startBudget"`
	MaxBudget   int `json:"maxBudget"`
	MaxCorrupt  int `json:"maxCorrupt"`
	// WinCount is how many properties must be owned, and how many of
	// those must be fairly run, for a win.
	WinCount int `json:"winCount"`
	// ExtraCustomers is the volunteer initiative bonus per property.
	ExtraCustomers int `json:"extraCustomers"`
	// SurchargeRate is the permanent price increase, in percent.
	SurchargeRate int `json:"surchargeRate"`
}

// tile types
const (
	TileStart    = "start"
	TileProperty = "property"
	TileMystery  = "mystery"
)

// TileTemplate is one board slot, as loaded. Property tiles carry a
// PropertyTemplate; a property tile without one is decorative and gets
// skipped by every economic loop.
type TileTemplate struct {
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Logo     string            `json:"logo"`
	Property *PropertyTemplate `json:"property,omitempty"`
}

// PropertyTemplate is the immutable economics of one property.
type PropertyTemplate struct {
	Cost            int     `json:"cost"`
	MarketPrice     int     `json:"marketPrice"`
	ReasonablePrice int     `json:"reasonablePrice"`
	TaxRate         int     `json:"taxRate"`
	ReasonableTax   int     `json:"reasonableTax"`
	MinCustomers    int     `json:"minCustomers"`
	MaxCustomers    int     `json:"maxCustomers"`
	SellRate        float64 `json:"sellRate"`
}

// MysteryCard is a mystery card, as parsed from config, with an
// unparsed effect code.
type MysteryCard struct {
	Name    string `json:"name"`
	Desc    string `json:"desc"`
	Corrupt bool   `json:"corrupt"`
	Code    string `json:"code"`
}

// Question is one trivia question, for the reroll quiz.
type Question struct {
	Prompt string   `json:"prompt"`
	Answer string   `json:"answer"`
	Wrong  []string `json:"wrong"`
}

// gameSave is container for saving all changing things.
type gameSave struct {
	Status     string                 `json:"status"`
	Reason     string                 `json:"reason"`
	TurnNo     int                    `json:"turnNo"`
	Player     *playerState           `json:"player"`
	Properties map[int]*propertyState `json:"properties"`
	Turn       *turn                  `json:"turn"`
}
