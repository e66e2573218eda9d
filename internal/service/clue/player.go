package clue

// Player 是对局中的一名玩家，名称与角色一致
type Player struct {
	Name  string `json:"name"`
	Room  *Room  `json:"room"`
	Cards []Card `json:"-"`
	// 错误指控后置为 false，玩家仍留在棋盘上并可以反驳他人的猜测
	Playing bool `json:"playing"`
}

func (p *Player) HasCard(card Card) bool {
	return containsCard(p.Cards, card)
}

func (p *Player) MatchingCards(cards []Card) []Card {
	matches := make([]Card, 0, len(cards))
	for _, c := range cards {
		if p.HasCard(c) {
			matches = append(matches, c)
		}
	}

	return matches
}
