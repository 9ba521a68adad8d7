package discovery

import (
	"errors"
	"fmt"
)

const (
	StageSeed      = "seed"
	StageKeyword   = "keyword"
	StageQuery     = "query"
	StageFetch     = "fetch"
	StageNormalize = "normalize"
	StageCaption   = "caption"
	StageChannel   = "channel"
	StageEmbedding = "embedding"
	StageRank      = "rank"
	StageComments  = "comments"
)

var (
	ErrSeedRequired = errors.New("seed video id is required")
)

// StageError names the pipeline stage a propagated failure came from.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}

// ItemFailure records a per-item failure the run continued past.
type ItemFailure struct {
	VideoId string `json:"videoId"`
	Stage   string `json:"stage"`
	Err     error  `json:"-"`
	Message string `json:"error"`
}

func newItemFailure(videoId string, stage string, err error) ItemFailure {
	return ItemFailure{
		VideoId: videoId,
		Stage:   stage,
		Err:     err,
		Message: err.Error(),
	}
}
