package clue

import (
	"errors"
	"fmt"
)

type RoomType string

const (
	ROOM_REGULAR RoomType = "Regular"
	ROOM_HALLWAY RoomType = "Hallway"
)

var (
	ErrInvalidBoard = errors.New("invalid board definition")
	ErrRoomNotFound = errors.New("room not found")
)

// Room 是棋盘上的一个节点，构造后不可变
type Room struct {
	Name string   `json:"name"`
	Type RoomType `json:"type"`
}

func (r *Room) IsHallway() bool {
	return r.Type == ROOM_HALLWAY
}

func HallwayName(a, b string) string {
	return fmt.Sprintf("%s - %s Hallway", a, b)
}

// Board 是房间、走廊与密道组成的静态图，构造完成后只读，
// 可以在多个游戏之间共享
type Board struct {
	rooms map[string]*Room
	// 邻接表按构造顺序保存，保证遍历结果确定
	adj   map[string][]string
	order []string
}

func NewBoard(rooms []string, hallways, passages [][2]string) (*Board, error) {
	b := &Board{
		rooms: make(map[string]*Room, len(rooms)+len(hallways)),
		adj:   make(map[string][]string, len(rooms)+len(hallways)),
		order: make([]string, 0, len(rooms)+len(hallways)),
	}

	for _, name := range rooms {
		if err := b.addRoom(name, ROOM_REGULAR); err != nil {
			return nil, err
		}
	}

	for _, h := range hallways {
		if err := b.checkEndpoints(h); err != nil {
			return nil, err
		}

		name := HallwayName(h[0], h[1])
		if err := b.addRoom(name, ROOM_HALLWAY); err != nil {
			return nil, err
		}

		b.addEdge(name, h[0])
		b.addEdge(name, h[1])
	}

	for _, p := range passages {
		if err := b.checkEndpoints(p); err != nil {
			return nil, err
		}

		b.addEdge(p[0], p[1])
	}

	return b, nil
}

func MustNewBoard(rooms []string, hallways, passages [][2]string) *Board {
	b, err := NewBoard(rooms, hallways, passages)
	if err != nil {
		panic(err)
	}

	return b
}

var defaultBoard = MustNewBoard(ROOMS, HALLWAYS, SECRET_PASSAGES)

// DefaultBoard 返回标准布局的棋盘，所有游戏共享同一个实例
func DefaultBoard() *Board {
	return defaultBoard
}

func (b *Board) addRoom(name string, roomType RoomType) error {
	if name == "" {
		return fmt.Errorf("%w: empty room name", ErrInvalidBoard)
	}

	if _, ok := b.rooms[name]; ok {
		return fmt.Errorf("%w: duplicate room %q", ErrInvalidBoard, name)
	}

	b.rooms[name] = &Room{Name: name, Type: roomType}
	b.order = append(b.order, name)

	return nil
}

func (b *Board) checkEndpoints(pair [2]string) error {
	if pair[0] == pair[1] {
		return fmt.Errorf("%w: %q connects to itself", ErrInvalidBoard, pair[0])
	}

	for _, name := range pair {
		room, ok := b.rooms[name]
		if !ok {
			return fmt.Errorf("%w: unknown room %q", ErrInvalidBoard, name)
		}

		if room.IsHallway() {
			return fmt.Errorf("%w: %q is a hallway", ErrInvalidBoard, name)
		}
	}

	return nil
}

func (b *Board) addEdge(a, c string) {
	for _, n := range b.adj[a] {
		if n == c {
			return
		}
	}

	b.adj[a] = append(b.adj[a], c)
	b.adj[c] = append(b.adj[c], a)
}

func (b *Board) Lookup(name string) (*Room, error) {
	room, ok := b.rooms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, name)
	}

	return room, nil
}

func (b *Board) AdjacentRooms(room *Room) []*Room {
	neighbors := b.adj[room.Name]

	result := make([]*Room, 0, len(neighbors))
	for _, n := range neighbors {
		result = append(result, b.rooms[n])
	}

	return result
}

func (b *Board) Rooms() []*Room {
	result := make([]*Room, 0, len(b.order))
	for _, name := range b.order {
		result = append(result, b.rooms[name])
	}

	return result
}

// RoomLayout 返回 5x5 的地图布局，空字符串表示空格子
func RoomLayout() []string {
	const EMPTY = ""

	return []string{
		STUDY, HallwayName(STUDY, HALL), HALL, HallwayName(HALL, LOUNGE), LOUNGE,
		HallwayName(STUDY, LIBRARY), EMPTY, HallwayName(HALL, BILLIARD), EMPTY, HallwayName(LOUNGE, DINING),
		LIBRARY, HallwayName(LIBRARY, BILLIARD), BILLIARD, HallwayName(DINING, BILLIARD), DINING,
		HallwayName(CONSERVATORY, LIBRARY), EMPTY, HallwayName(BALLROOM, BILLIARD), EMPTY, HallwayName(DINING, KITCHEN),
		CONSERVATORY, HallwayName(BALLROOM, CONSERVATORY), BALLROOM, HallwayName(KITCHEN, BALLROOM), KITCHEN,
	}
}
