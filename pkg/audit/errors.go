package audit

import "errors"

var (
	ErrOpenStore    = errors.New("open audit history")
	ErrAppendRecord = errors.New("append audit record")
	ErrListRecords  = errors.New("list audit records")
	ErrPruneRecords = errors.New("prune audit records")
)
