// Package moderation collects abuse reports against messages and takes down messages
// which were reported too many times or reported by the conversation's owner.
package moderation

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/echowaves/chat/server/concurrency"
	"github.com/echowaves/chat/server/logs"
	"github.com/echowaves/chat/server/metrics"
	"github.com/echowaves/chat/server/store"
	"github.com/echowaves/chat/server/store/types"
)

// DefaultAbuseThreshold is the number of distinct reporters a message survives.
const DefaultAbuseThreshold = 3

type configType struct {
	// A message is taken down when it's reported by more than this number of users.
	AbuseThreshold *int `json:"abuse_threshold"`
	// Number of goroutines restricting access to attachments of removed messages.
	// Zero means access is restricted synchronously.
	LockdownWorkers int `json:"lockdown_workers"`
}

var globals struct {
	threshold int

	// Guards pool.
	poolLock sync.RWMutex
	pool     *concurrency.GoRoutinePool
}

// Init configures moderation. Missing or empty config uses defaults.
func Init(jsconfig json.RawMessage) error {
	var config configType
	if len(jsconfig) > 0 {
		if err := json.Unmarshal(jsconfig, &config); err != nil {
			return errors.New("moderation: failed to parse config: " + err.Error())
		}
	}

	globals.threshold = DefaultAbuseThreshold
	if config.AbuseThreshold != nil {
		if *config.AbuseThreshold < 0 {
			return errors.New("moderation: abuse_threshold must not be negative")
		}
		globals.threshold = *config.AbuseThreshold
	}

	globals.poolLock.Lock()
	if globals.pool != nil {
		globals.pool.Stop()
	}
	globals.pool = concurrency.NewGoRoutinePool(config.LockdownWorkers)
	globals.poolLock.Unlock()

	logs.Info.Printf("moderation: abuse threshold %d, lockdown workers %d", globals.threshold, config.LockdownWorkers)
	return nil
}

// Shutdown stops lockdown workers.
func Shutdown() {
	globals.poolLock.Lock()
	defer globals.poolLock.Unlock()

	if globals.pool != nil {
		globals.pool.Stop()
		globals.pool = nil
	}
}

// Threshold returns the configured abuse threshold.
func Threshold() int {
	return globals.threshold
}

// IsPublished checks if the message is visible, i.e. it has not been taken down.
// Reports filed against the message do not matter until one of them is attached.
func IsPublished(msg *types.Message) bool {
	return msg.IsPublished()
}

// ReportAbuse files a report of the user against the message. Repeated reports of the
// same user return the original report. The message is taken down when the reporter
// owns the message's conversation or the number of reports exceeds the threshold.
// Removing access to the message's attachment is best-effort: failures are logged
// and do not fail the report.
func ReportAbuse(msgId, reporter types.Uid) (*types.AbuseReport, error) {
	if msgId.IsZero() || reporter.IsZero() {
		return nil, types.ErrMalformed
	}

	msg, err := store.Messages.Get(msgId)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, types.ErrNotFound
	}

	rep, err := findOrCreateReport(msgId, reporter)
	if err != nil {
		return nil, err
	}

	reports, err := store.AbuseReports.GetForMessage(msgId)
	if err != nil {
		return nil, err
	}
	count := countReporters(reports, rep)

	byOwner := false
	if count <= globals.threshold {
		conv, err := store.Conversations.Get(types.ParseUid(msg.Conversation))
		if err != nil {
			return nil, err
		}
		byOwner = conv != nil && conv.IsOwner(reporter)
	}

	if !byOwner && count <= globals.threshold {
		return rep, nil
	}
	if !msg.IsPublished() {
		// Already taken down by an earlier report.
		return rep, nil
	}

	ok, err := store.Messages.Deactivate(msgId, rep.Uid())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Another report got attached first.
		return rep, nil
	}

	msg.AbuseReport = rep.Id
	metrics.MessageDeactivated()
	logs.Info.Printf("moderation: message %s taken down, %d report(s), by owner: %t", msgId, count, byOwner)

	restrictAccess(msgId)
	return rep, nil
}

// findOrCreateReport returns the user's report against the message creating it if needed.
func findOrCreateReport(msgId, reporter types.Uid) (*types.AbuseReport, error) {
	rep, err := store.AbuseReports.Get(msgId, reporter)
	if err != nil || rep != nil {
		return rep, err
	}

	rep = &types.AbuseReport{User: reporter.String(), Message: msgId.String()}
	err = store.AbuseReports.Create(rep)
	if err == nil {
		metrics.AbuseReported()
		return rep, nil
	}
	if err != types.ErrDuplicate {
		return nil, err
	}

	// Same user reported concurrently.
	rep, err = store.AbuseReports.Get(msgId, reporter)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, types.ErrInternal
	}
	return rep, nil
}

// countReporters returns the number of distinct users who reported the message, including
// the author of rep which may not be visible to the read yet.
func countReporters(reports []types.AbuseReport, rep *types.AbuseReport) int {
	users := make(map[string]bool, len(reports)+1)
	for i := range reports {
		users[reports[i].User] = true
	}
	users[rep.User] = true
	return len(users)
}

// restrictAccess locks down the attachment of a removed message. The lockdown runs on the
// pool when one is configured and has room, otherwise on the caller's goroutine.
func restrictAccess(msgId types.Uid) {
	if store.Store == nil {
		return
	}
	handler := store.Store.GetMediaHandler()
	if handler == nil {
		return
	}

	task := func() {
		if err := handler.RestrictAccess(msgId); err != nil {
			logs.Warn.Println("moderation: failed to restrict access to attachment", msgId, err)
			metrics.SideEffectFailed(metrics.KindLockdown)
		}
	}

	globals.poolLock.RLock()
	scheduled := globals.pool != nil && globals.pool.TrySchedule(task)
	globals.poolLock.RUnlock()

	if !scheduled {
		task()
	}
}

func init() {
	globals.threshold = DefaultAbuseThreshold
}
