package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clueless-be/internal/service/clue"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Entity struct {
	ID uint `gorm:"primaryKey"`
}

// 一局已结束游戏的结果
type GameRecord struct {
	Entity

	GameID string `gorm:"unique;size:16"`
	// 获胜玩家，所有人出局时为 clue.NO_CONTESTANTS
	Result string `gorm:"size:32"`
	Turns  int
	// 按回合顺序、以逗号连接的玩家名单
	Players string

	Suspect    string `gorm:"size:32"`
	Weapon     string `gorm:"size:32"`
	Room       string `gorm:"size:32"`
	FinishedAt time.Time

	Accusations []*AccusationRecord `gorm:"foreignKey:GameRecordID"`
}

type AccusationRecord struct {
	Entity

	GameRecordID uint   `gorm:"not null"`
	Player       string `gorm:"size:32"`
	Suspect      string `gorm:"size:32"`
	Weapon       string `gorm:"size:32"`
	Room         string `gorm:"size:32"`
	Correct      bool
	Turn         int
}

func InitDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&GameRecord{}, &AccusationRecord{}); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return db, nil
}

type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) RecordGame(ctx context.Context, snap clue.Snapshot) error {
	if !snap.Finished() {
		return ErrUnfinished
	}

	players := make([]string, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, p.Name)
	}

	record := GameRecord{
		GameID:     snap.ID,
		Result:     snap.Result,
		Turns:      snap.Turn,
		Players:    strings.Join(players, ","),
		FinishedAt: time.Now(),
	}

	if snap.Murder != nil {
		record.Suspect = snap.Murder.Suspect.Name
		record.Weapon = snap.Murder.Weapon.Name
		record.Room = snap.Murder.Room.Name
	}

	for _, acc := range snap.Accusations {
		record.Accusations = append(record.Accusations, &AccusationRecord{
			Player:  acc.Player,
			Suspect: acc.Suspect,
			Weapon:  acc.Weapon,
			Room:    acc.Room,
			Correct: acc.Correct,
			Turn:    acc.Turn,
		})
	}

	return s.db.WithContext(ctx).Create(&record).Error
}

// ListResults 返回最近结束的游戏，新的在前
func (s *SQLStore) ListResults(ctx context.Context, limit int) ([]GameRecord, error) {
	var records []GameRecord

	err := s.db.WithContext(ctx).
		Preload("Accusations").
		Order("id desc").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (s *SQLStore) GetResult(ctx context.Context, gameID string) (GameRecord, error) {
	var record GameRecord

	err := s.db.WithContext(ctx).
		Preload("Accusations").
		Where("game_id = ?", gameID).
		First(&record).Error

	return record, err
}
