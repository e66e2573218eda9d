package clue

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrUnknownCharacter = errors.New("unknown character")
	ErrEmptyRoster      = errors.New("empty roster")
)

// MurderTriple 是隐藏的答案：一名嫌疑人、一件凶器、一个房间
type MurderTriple struct {
	Suspect Card `json:"suspect"`
	Weapon  Card `json:"weapon"`
	Room    Card `json:"room"`
}

func (m MurderTriple) Cards() []Card {
	return []Card{m.Suspect, m.Weapon, m.Room}
}

// Matches 判断给定的三张牌与答案是否集合相等，与顺序无关
func (m MurderTriple) Matches(cards []Card) bool {
	if len(cards) != 3 {
		return false
	}

	want := m.Cards()
	for _, c := range cards {
		if !containsCard(want, c) {
			return false
		}
	}

	for _, c := range want {
		if !containsCard(cards, c) {
			return false
		}
	}

	return true
}

// NewRand 为单局游戏创建独立的随机源，避免并发对局之间互相影响
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func validateRoster(players []string) error {
	if len(players) == 0 {
		return ErrEmptyRoster
	}

	seen := make(map[string]struct{}, len(players))
	for _, name := range players {
		if !IsCharacter(name) {
			return fmt.Errorf("%w: %q", ErrUnknownCharacter, name)
		}

		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q appears twice", ErrUnknownCharacter, name)
		}

		seen[name] = struct{}{}
	}

	return nil
}

// 嫌疑人牌只包含本局参与的角色
func rosterSuspects(players []string) []Card {
	suspects := make([]Card, 0, len(players))
	for _, name := range CHARACTERS {
		for _, p := range players {
			if p == name {
				suspects = append(suspects, Card{Name: name, Type: CARD_SUSPECT})
				break
			}
		}
	}

	return suspects
}

// Universe 返回本局游戏的全部卡牌
func Universe(players []string) ([]Card, error) {
	if err := validateRoster(players); err != nil {
		return nil, err
	}

	cards := make([]Card, 0, len(players)+len(WEAPONS)+len(ROOMS))
	cards = append(cards, rosterSuspects(players)...)
	cards = append(cards, cardsOf(CARD_WEAPON, WEAPONS)...)
	cards = append(cards, cardsOf(CARD_ROOM, ROOMS)...)

	return cards, nil
}

// Deal 抽出答案并把剩余卡牌轮流发给每位玩家，
// 各玩家手牌数量最多相差一张
func Deal(rng *rand.Rand, players []string) (MurderTriple, map[string][]Card, error) {
	if err := validateRoster(players); err != nil {
		return MurderTriple{}, nil, err
	}

	suspects := rosterSuspects(players)
	weapons := cardsOf(CARD_WEAPON, WEAPONS)
	rooms := cardsOf(CARD_ROOM, ROOMS)

	shuffle(rng, suspects)
	shuffle(rng, weapons)
	shuffle(rng, rooms)

	murder := MurderTriple{
		Suspect: suspects[len(suspects)-1],
		Weapon:  weapons[len(weapons)-1],
		Room:    rooms[len(rooms)-1],
	}

	remaining := make([]Card, 0, len(suspects)+len(weapons)+len(rooms)-3)
	remaining = append(remaining, weapons[:len(weapons)-1]...)
	remaining = append(remaining, suspects[:len(suspects)-1]...)
	remaining = append(remaining, rooms[:len(rooms)-1]...)

	shuffle(rng, remaining)

	hands := make(map[string][]Card, len(players))
	for _, p := range players {
		hands[p] = make([]Card, 0, len(remaining)/len(players)+1)
	}

	for i, c := range remaining {
		p := players[i%len(players)]
		hands[p] = append(hands[p], c)
	}

	return murder, hands, nil
}

func shuffle(rng *rand.Rand, cards []Card) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
