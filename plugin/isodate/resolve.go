package isodate

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	apperrors "github.com/hrygo/schedtext/internal/errors"
)

var (
	nlpOnce   sync.Once
	nlpParser *when.Parser
)

func naturalParser() *when.Parser {
	nlpOnce.Do(func() {
		nlpParser = when.New(nil)
		nlpParser.Add(en.All...)
		nlpParser.Add(common.All...)
	})
	return nlpParser
}

// Resolve turns s into an instant in the codec's frame. It tries, in order,
// the strict ISO form, any layout dateparse recognises ("04/22/2012 1:05 PM"),
// and English relative expressions ("tomorrow", "in 3 days") anchored at now.
// An empty s yields the zero time.
func (c *Codec) Resolve(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	dt, isoErr := c.Decode(s)
	if isoErr == nil {
		return dt.In(c.loc), nil
	}

	if t, err := dateparse.ParseIn(s, c.loc); err == nil {
		c.logger.Debug("date resolved by layout detection", slog.String("input", s))
		return t.In(c.loc), nil
	}

	r, err := naturalParser().Parse(s, now.In(c.loc))
	if err == nil && r != nil {
		c.logger.Debug("date resolved as relative expression", slog.String("input", s), slog.String("match", r.Text))
		return r.Time.In(c.loc), nil
	}

	return time.Time{}, apperrors.Wrap(isoErr, apperrors.ErrCodeInvalidDate, "unrecognised date").
		WithContext("input", s)
}
