package tui

import (
	"github.com/ytscout/ytscout/internal/scout"
	"github.com/ytscout/ytscout/internal/youtube"
)

// resultsMsg carries a finished query.
type resultsMsg struct {
	result scout.Result
}

// queryErrMsg carries a non-fatal failure; the session continues.
type queryErrMsg struct {
	err error
}

// commentsMsg carries the lazily loaded comments for one video.
type commentsMsg struct {
	videoID  string
	comments []youtube.Comment
	err      error
}
