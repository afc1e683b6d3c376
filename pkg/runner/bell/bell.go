package bell

import (
	"context"
	"errors"

	"tableflip.dev/recess/pkg/alert"
	"tableflip.dev/recess/pkg/timetable"
)

// Bell fires every configured sink once.
type Bell struct {
	Alerts alert.Options
	Group  string
}

func (b *Bell) Do(ctx context.Context) error {
	opts := b.Alerts
	// A test bell ignores the cooldown.
	opts.Cooldown = 0
	d, err := alert.NewDispatcher(opts)
	if err != nil {
		return err
	}
	if len(d.Sinks()) == 0 {
		return errors.New("no alert sinks configured")
	}
	d.Dispatch(ctx, alert.Alert{Group: b.Group, Kind: timetable.KindBreak})
	return nil
}
