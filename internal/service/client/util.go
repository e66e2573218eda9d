package client

import (
	"github.com/google/uuid"
)

func GenID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("Failed to generate UUID: " + err.Error())
	}

	return id.String()
}

// ShortID 用于客户端和游戏编号，取随机 UUID 的前 8 位
func ShortID() string {
	return uuid.New().String()[:8]
}
