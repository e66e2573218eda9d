package store

import (
	"context"
	"errors"

	"clueless-be/internal/service/clue"
)

var ErrUnfinished = errors.New("game has no result yet")

type Recorder interface {
	RecordGame(ctx context.Context, snap clue.Snapshot) error
}

// MultiRecorder 把结果依次交给每个存储，失败不影响后面的存储
type MultiRecorder []Recorder

func (m MultiRecorder) RecordGame(ctx context.Context, snap clue.Snapshot) error {
	var errs []error

	for _, r := range m {
		if err := r.RecordGame(ctx, snap); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
