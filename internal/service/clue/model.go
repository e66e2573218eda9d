package clue

// 角色（嫌疑人）
const (
	PLUM    = "Prof. Plum"
	WHITE   = "Mrs. White"
	MUSTARD = "Col. Mustard"
	SCARLET = "Miss Scarlet"
	PEACOCK = "Mrs. Peacock"
	GREEN   = "Mr. Green"
)

// 凶器
const (
	REVOLVER    = "Revolver"
	DAGGER      = "Dagger"
	PIPE        = "Lead Pipe"
	ROPE        = "Rope"
	CANDLESTICK = "Candlestick"
	WRENCH      = "Wrench"
)

// 房间
const (
	STUDY        = "Study"
	HALL         = "Hall"
	LOUNGE       = "Lounge"
	LIBRARY      = "Library"
	BILLIARD     = "Billiard Room"
	DINING       = "Dining Room"
	BALLROOM     = "Ballroom"
	KITCHEN      = "Kitchen"
	CONSERVATORY = "Conservatory"
)

var (
	CHARACTERS = []string{PLUM, WHITE, MUSTARD, SCARLET, PEACOCK, GREEN}
	WEAPONS    = []string{REVOLVER, DAGGER, PIPE, ROPE, CANDLESTICK, WRENCH}
	ROOMS      = []string{STUDY, HALL, LOUNGE, LIBRARY, BILLIARD, DINING, BALLROOM, KITCHEN, CONSERVATORY}
)

// 走廊由一对相邻房间合成，名称由 HallwayName 生成
var HALLWAYS = [][2]string{
	{STUDY, HALL},
	{STUDY, LIBRARY},
	{HALL, BILLIARD},
	{HALL, LOUNGE},
	{LOUNGE, DINING},
	{DINING, BILLIARD},
	{DINING, KITCHEN},
	{KITCHEN, BALLROOM},
	{BALLROOM, CONSERVATORY},
	{BALLROOM, BILLIARD},
	{CONSERVATORY, LIBRARY},
	{LIBRARY, BILLIARD},
}

// 密道直接连接两个普通房间
var SECRET_PASSAGES = [][2]string{
	{STUDY, KITCHEN},
	{CONSERVATORY, LOUNGE},
}

// 每个角色的起始走廊
var START_HALLWAY = map[string][2]string{
	PLUM:    {STUDY, LIBRARY},
	WHITE:   {KITCHEN, BALLROOM},
	MUSTARD: {LOUNGE, DINING},
	SCARLET: {HALL, LOUNGE},
	PEACOCK: {CONSERVATORY, LIBRARY},
	GREEN:   {BALLROOM, CONSERVATORY},
}

// 平局结果：所有玩家都因错误指控出局
const NO_CONTESTANTS = "No Contestants"

func IsCharacter(name string) bool {
	for _, c := range CHARACTERS {
		if c == name {
			return true
		}
	}

	return false
}
