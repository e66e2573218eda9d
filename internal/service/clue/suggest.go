package clue

import (
	"context"

	"go.uber.org/zap"
)

func (g *Game) suggest(ctx context.Context, active *Player) {
	room := active.Room

	// 走廊中不能猜测，广播空结果
	if room.IsHallway() {
		g.pushSuggestionResult(ctx, PlayerSuggestionResult{
			GameID:      g.ID,
			SuggestedBy: active.Name,
		})
		return
	}

	suspects, weapons, _ := SortCards(g.universe)

	rctx, cancel := g.requestCtx(ctx)
	resp, err := g.proxies[active.Name].RequestSuggestion(rctx, PlayerSuggestionRequest{
		GameID:   g.ID,
		Suspects: suspects,
		Weapons:  weapons,
		Rooms:    []string{room.Name},
	})
	cancel()

	if err != nil {
		zap.L().Warn(
			"猜测请求没有响应，视为放弃",
			zap.String("game_id", g.ID),
			zap.String("player", active.Name),
			zap.Error(err),
		)
	}

	cards, ok := g.parseSuggestion(resp, room)
	if !ok {
		g.pushSuggestionResult(ctx, PlayerSuggestionResult{
			GameID:      g.ID,
			SuggestedBy: active.Name,
		})
		return
	}

	// 被点名的嫌疑人（仍在游戏中）被移动到猜测所在的房间
	if suspect := g.playerByName(cards[0].Name); suspect != nil && suspect.Playing {
		suspect.Room = room
	}

	result := PlayerSuggestionResult{
		GameID:      g.ID,
		Suspect:     cards[0].Name,
		Weapon:      cards[1].Name,
		Room:        cards[2].Name,
		SuggestedBy: active.Name,
	}

	if disprover, card, ok := g.findDisprover(cards); ok {
		result.DisprovedBy = disprover.Name
		result.DisprovedCard = card.Name
	}

	zap.L().Info(
		"玩家提出猜测",
		zap.String("game_id", g.ID),
		zap.String("player", active.Name),
		zap.String("suspect", result.Suspect),
		zap.String("weapon", result.Weapon),
		zap.String("room", result.Room),
		zap.String("disproved_by", result.DisprovedBy),
	)

	g.pushSuggestionResult(ctx, result)
}

// parseSuggestion 校验猜测：任一字段为空或不在可选范围内都视为放弃，
// 房间必须是玩家当前所在的房间
func (g *Game) parseSuggestion(resp PlayerSuggestionResponse, room *Room) ([]Card, bool) {
	if resp.Suspect == "" || resp.Weapon == "" || resp.Room == "" {
		return nil, false
	}

	suspect := Card{Name: resp.Suspect, Type: CARD_SUSPECT}
	weapon := Card{Name: resp.Weapon, Type: CARD_WEAPON}

	if !containsCard(g.universe, suspect) || !containsCard(g.universe, weapon) || resp.Room != room.Name {
		zap.L().Debug(
			"猜测内容不合法，视为放弃",
			zap.String("game_id", g.ID),
			zap.Any("suggestion", resp),
		)
		return nil, false
	}

	return []Card{suspect, weapon, {Name: room.Name, Type: CARD_ROOM}}, true
}

// findDisprover 从当前玩家的下一位开始按回合顺序查找，
// 第一位持有任一被猜测卡牌的玩家随机亮出其中一张
func (g *Game) findDisprover(cards []Card) (*Player, Card, bool) {
	n := len(g.players)

	for i := 1; i < n; i++ {
		candidate := g.players[(g.turn+i)%n]

		matches := candidate.MatchingCards(cards)
		if len(matches) > 0 {
			return candidate, matches[g.rng.IntN(len(matches))], true
		}
	}

	return nil, Card{}, false
}

func (g *Game) pushSuggestionResult(ctx context.Context, result PlayerSuggestionResult) {
	g.broadcast(ctx, "SuggestionResult", func(ctx context.Context, _ *Player, proxy Proxy) error {
		return proxy.SendSuggestionResult(ctx, result)
	})
}

func (g *Game) accuse(ctx context.Context, active *Player) {
	suspects, weapons, rooms := SortCards(g.universe)

	rctx, cancel := g.requestCtx(ctx)
	resp, err := g.proxies[active.Name].RequestAccusation(rctx, PlayerAccusationRequest{
		GameID:   g.ID,
		Suspects: suspects,
		Weapons:  weapons,
		Rooms:    rooms,
	})
	cancel()

	if err != nil {
		zap.L().Warn(
			"指控请求没有响应，视为放弃",
			zap.String("game_id", g.ID),
			zap.String("player", active.Name),
			zap.Error(err),
		)
		return
	}

	cards, ok := g.parseAccusation(resp)
	if !ok {
		return
	}

	correct := g.murder.Matches(cards)

	g.accusations = append(g.accusations, Accusation{
		Player:  active.Name,
		Suspect: resp.Suspect,
		Weapon:  resp.Weapon,
		Room:    resp.Room,
		Correct: correct,
		Turn:    g.turn,
	})

	if correct {
		g.setResult(active.Name)
	} else {
		active.Playing = false
	}

	zap.L().Info(
		"玩家提出指控",
		zap.String("game_id", g.ID),
		zap.String("player", active.Name),
		zap.Bool("correct", correct),
	)

	result := PlayerAccusationResult{
		GameID:    g.ID,
		AccusedBy: active.Name,
		Correct:   correct,
		Suspect:   resp.Suspect,
		Weapon:    resp.Weapon,
		Room:      resp.Room,
	}

	g.broadcast(ctx, "AccusationResult", func(ctx context.Context, _ *Player, proxy Proxy) error {
		return proxy.SendAccusationResult(ctx, result)
	})
}

func (g *Game) parseAccusation(resp PlayerAccusationResponse) ([]Card, bool) {
	if resp.Suspect == "" || resp.Weapon == "" || resp.Room == "" {
		return nil, false
	}

	cards := []Card{
		{Name: resp.Suspect, Type: CARD_SUSPECT},
		{Name: resp.Weapon, Type: CARD_WEAPON},
		{Name: resp.Room, Type: CARD_ROOM},
	}

	for _, c := range cards {
		if !containsCard(g.universe, c) {
			zap.L().Debug(
				"指控内容不合法，视为放弃",
				zap.String("game_id", g.ID),
				zap.Any("accusation", resp),
			)
			return nil, false
		}
	}

	return cards, true
}
