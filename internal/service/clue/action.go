package clue

// 以下报文均为扁平的键值结构，ClientID 由代理在发送前填写

type GameStateRequest struct {
	GameID      string            `json:"game_id"`
	ClientID    string            `json:"client_id"`
	Whereabouts map[string]string `json:"whereabouts"`
	CurrentTurn string            `json:"current_turn"`
	// 只包含接收方自己的手牌
	PlayerCards []string `json:"player_cards"`
}

type PlayerMoveRequest struct {
	GameID      string   `json:"game_id"`
	ClientID    string   `json:"client_id"`
	MoveOptions []string `json:"move_options"`
}

type PlayerMoveResponse struct {
	Move string `json:"move"`
}

type PlayerSuggestionRequest struct {
	GameID   string   `json:"game_id"`
	ClientID string   `json:"client_id"`
	Suspects []string `json:"suspects"`
	Weapons  []string `json:"weapons"`
	Rooms    []string `json:"rooms"`
}

type PlayerSuggestionResponse struct {
	Suspect string `json:"suspect"`
	Weapon  string `json:"weapon"`
	Room    string `json:"room"`
}

// 所有字段为空表示本回合没有猜测（走廊中或玩家放弃）
type PlayerSuggestionResult struct {
	GameID        string `json:"game_id"`
	ClientID      string `json:"client_id"`
	Suspect       string `json:"suspect"`
	Weapon        string `json:"weapon"`
	Room          string `json:"room"`
	SuggestedBy   string `json:"suggested_by"`
	DisprovedBy   string `json:"disproved_by"`
	DisprovedCard string `json:"disproved_card"`
}

type PlayerAccusationRequest struct {
	GameID   string   `json:"game_id"`
	ClientID string   `json:"client_id"`
	Suspects []string `json:"suspects"`
	Weapons  []string `json:"weapons"`
	Rooms    []string `json:"rooms"`
}

type PlayerAccusationResponse struct {
	Suspect string `json:"suspect"`
	Weapon  string `json:"weapon"`
	Room    string `json:"room"`
}

type PlayerAccusationResult struct {
	GameID    string `json:"game_id"`
	ClientID  string `json:"client_id"`
	AccusedBy string `json:"accused_by"`
	Correct   bool   `json:"correct"`
	Suspect   string `json:"suspect"`
	Weapon    string `json:"weapon"`
	Room      string `json:"room"`
}

type GameOverRequest struct {
	GameID   string `json:"game_id"`
	ClientID string `json:"client_id"`
	Result   string `json:"result"`
	Suspect  string `json:"suspect"`
	Weapon   string `json:"weapon"`
	Room     string `json:"room"`
}

type AckResponse struct {
	Ack bool `json:"ack"`
}

// Accusation 记录一次指控，游戏结束后写入结果存储
type Accusation struct {
	Player  string `json:"player"`
	Suspect string `json:"suspect"`
	Weapon  string `json:"weapon"`
	Room    string `json:"room"`
	Correct bool   `json:"correct"`
	Turn    int    `json:"turn"`
}
