package clue

type CardType string

const (
	CARD_SUSPECT CardType = "Suspect"
	CARD_WEAPON  CardType = "Weapon"
	CARD_ROOM    CardType = "Room"
)

// 卡牌的身份由名称和类型共同决定
type Card struct {
	Name string   `json:"name"`
	Type CardType `json:"type"`
}

func LookupCard(name string) (Card, bool) {
	for _, n := range CHARACTERS {
		if n == name {
			return Card{Name: name, Type: CARD_SUSPECT}, true
		}
	}

	for _, n := range WEAPONS {
		if n == name {
			return Card{Name: name, Type: CARD_WEAPON}, true
		}
	}

	for _, n := range ROOMS {
		if n == name {
			return Card{Name: name, Type: CARD_ROOM}, true
		}
	}

	return Card{}, false
}

func cardsOf(cardType CardType, names []string) []Card {
	cards := make([]Card, 0, len(names))
	for _, name := range names {
		cards = append(cards, Card{Name: name, Type: cardType})
	}

	return cards
}

func containsCard(cards []Card, card Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}

	return false
}

// SortCards 按类型拆分卡牌名称，供请求报文使用
func SortCards(cards []Card) (suspects, weapons, rooms []string) {
	suspects = make([]string, 0)
	weapons = make([]string, 0)
	rooms = make([]string, 0)

	for _, c := range cards {
		switch c.Type {
		case CARD_SUSPECT:
			suspects = append(suspects, c.Name)
		case CARD_WEAPON:
			weapons = append(weapons, c.Name)
		case CARD_ROOM:
			rooms = append(rooms, c.Name)
		}
	}

	return suspects, weapons, rooms
}

func cardNames(cards []Card) []string {
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		names = append(names, c.Name)
	}

	return names
}
