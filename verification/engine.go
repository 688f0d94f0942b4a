package verification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/uslng/membergate/common"
	"github.com/uslng/membergate/model"
	"github.com/uslng/membergate/pkg/log"
)

const (
	DefaultPendingWindow  = 5 * time.Minute
	DefaultGracePeriod    = 5 * time.Minute
	DefaultSweepInterval  = 60 * time.Second
	DefaultOverridePhrase = "强制通过"
)

// Sender delivers a rendered message to a group. Implemented by the
// platform adapter.
type Sender interface {
	SendToGroup(groupID string, segments []model.Segment) error
}

// Journal records terminal verification outcomes. May be nil.
type Journal interface {
	Record(outcome model.VerificationOutcome) error
}

type Options struct {
	// Timeout is the pending window; a submission after it is expired.
	Timeout time.Duration
	// GracePeriod is added to Timeout before the background sweep purges a
	// record, so the sweep never races ahead of in-request expiry checks.
	GracePeriod   time.Duration
	SweepInterval time.Duration
	// OverridePhrase is the text an admin sends to force-pass a user.
	OverridePhrase string
	SuperAdmins    []string
	ExtraAdmins    []string
	// TimeoutAdminID, when set, is mentioned in the group on expiry.
	TimeoutAdminID string
	// Site is the public URL members visit; named in the welcome message.
	Site    string
	Journal Journal
}

// Engine is the pending-verification state machine. The store is its only
// shared mutable state; every check-then-act goes through the store's
// atomic take operations, so concurrent resolutions of one key settle on
// exactly one winner.
type Engine struct {
	store  *Store
	client *Client
	sender Sender
	codes  *CodeGenerator

	timeout        time.Duration
	grace          time.Duration
	sweepInterval  time.Duration
	overridePhrase string
	superAdmins    map[string]struct{}
	extraAdmins    map[string]struct{}
	timeoutAdminID string
	site           string
	journal        Journal

	now func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(store *Store, client *Client, sender Sender, opts Options) *Engine {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultPendingWindow
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.OverridePhrase == "" {
		opts.OverridePhrase = DefaultOverridePhrase
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		store:          store,
		client:         client,
		sender:         sender,
		codes:          NewCodeGenerator(model.CodeLength),
		timeout:        opts.Timeout,
		grace:          opts.GracePeriod,
		sweepInterval:  opts.SweepInterval,
		overridePhrase: opts.OverridePhrase,
		superAdmins:    common.SliceToSet(opts.SuperAdmins),
		extraAdmins:    common.SliceToSet(opts.ExtraAdmins),
		timeoutAdminID: opts.TimeoutAdminID,
		site:           opts.Site,
		journal:        opts.Journal,
		now:            time.Now,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Start launches the background expiry sweep. The sweep is a safety net;
// primary expiry is detected lazily at submission time.
func (e *Engine) Start() {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(e.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-e.ctx.Done():
				return
			case now := <-ticker.C:
				e.sweep(now)
			}
		}
	}()
}

// Close cancels the sweep and waits for it to finish.
func (e *Engine) Close() {
	e.cancel()
	e.wg.Wait()
}

func (e *Engine) IsAdmin(userID string) bool {
	if _, ok := e.superAdmins[userID]; ok {
		return true
	}
	_, ok := e.extraAdmins[userID]
	return ok
}

func (e *Engine) isSuperAdmin(userID string) bool {
	_, ok := e.superAdmins[userID]
	return ok
}

// OnMemberJoined handles a join notification. A join of the bot's own
// account is ignored. Re-joining while already pending replaces the record:
// new code, fresh window.
func (e *Engine) OnMemberJoined(groupID, userID, selfID string) {
	if userID == "" || userID == selfID {
		return
	}
	e.trigger(groupID, userID, false)
}

// Retrigger restarts the verification of target on behalf of an admin.
// Super-admins may trigger any user; plain admins only users that are
// currently pending.
func (e *Engine) Retrigger(actorID, groupID, targetID string) error {
	if !e.IsAdmin(actorID) {
		return model.NotAdminErr
	}
	if !e.isSuperAdmin(actorID) {
		if _, ok := e.store.Get(model.VerificationKey{GroupID: groupID, UserID: targetID}); !ok {
			return model.NotPendingErr
		}
	}
	e.trigger(groupID, targetID, true)
	return nil
}

func (e *Engine) trigger(groupID, userID string, adminTriggered bool) {
	code, err := e.codes.Generate()
	if err != nil {
		log.Error("generate challenge code: %v", err)
		return
	}
	p := model.PendingVerification{
		GroupID:   groupID,
		UserID:    userID,
		Code:      code,
		CreatedAt: e.now(),
	}
	e.store.Create(p)
	kind := "member joined"
	if adminTriggered {
		kind = "admin re-triggered"
	}
	log.Info("verification started (%v): group %v, user %v", kind, groupID, userID)

	lead := " Welcome! Please complete the verification:\n"
	if adminTriggered {
		lead = " An admin has re-triggered your verification:\n"
	}
	e.send(groupID,
		model.Mention(userID),
		model.Text(lead),
		model.Text(fmt.Sprintf("1. Visit %v\n", e.site)),
		model.Text(fmt.Sprintf("2. Enter the code: %v\n", code)),
		model.Text("3. Send the returned code to this group\n"),
		model.Text(fmt.Sprintf("Please finish within %v minutes", int(e.timeout.Minutes()))),
	)
}

// OnGroupMessage handles a chat message. Admin messages containing the
// override phrase force-pass the mentioned user; anything else is treated
// as a submission by the sender, and ignored unless the sender is pending.
func (e *Engine) OnGroupMessage(groupID, userID, text string, mentionedIDs []string, isAdmin bool) {
	text = strings.TrimSpace(text)
	if isAdmin && strings.Contains(text, e.overridePhrase) {
		e.handleOverride(groupID, userID, text, mentionedIDs)
		return
	}
	e.handleSubmission(groupID, userID, text)
}

func (e *Engine) handleOverride(groupID, actorID, text string, mentionedIDs []string) {
	targetID := overrideTarget(text, mentionedIDs, e.overridePhrase)
	if targetID == "" {
		e.send(groupID, model.Text("Mention the user to pass, or give their ID"))
		return
	}
	p, ok := e.store.Take(model.VerificationKey{GroupID: groupID, UserID: targetID})
	if !ok {
		e.send(groupID, model.Text(fmt.Sprintf("User %v is not pending verification", targetID)))
		return
	}
	e.record(model.OutcomeOverridden, p)
	log.Info("verification overridden: group %v, user %v, by admin %v", groupID, targetID, actorID)
	e.send(groupID, model.Mention(targetID), model.Text(" has been passed by an admin"))
}

// overrideTarget picks the target user: the first mention wins, otherwise
// the first all-digit token that is not part of the override phrase.
func overrideTarget(text string, mentionedIDs []string, phrase string) string {
	if len(mentionedIDs) > 0 {
		return mentionedIDs[0]
	}
	for _, field := range strings.Fields(strings.ReplaceAll(text, phrase, " ")) {
		if isDigits(field) {
			return field
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (e *Engine) handleSubmission(groupID, userID, text string) {
	key := model.VerificationKey{GroupID: groupID, UserID: userID}
	p, ok := e.store.Get(key)
	if !ok {
		return
	}
	now := e.now()
	// An expired record never reaches the verify endpoint, no matter what
	// was submitted.
	if p.Age(now) > e.timeout {
		if taken, ok := e.store.TakeMatching(key, p.Code); ok {
			e.expire(taken)
		}
		return
	}
	if len(text) > model.MaxSubmissionLength {
		e.send(groupID, model.Mention(userID), model.Text(" The submitted code is too long, please check it"))
		return
	}
	res := e.client.Verify(e.ctx, text)
	if !res.Success {
		// Transient failure: the record and its timer stay untouched so
		// the member can retry.
		log.Warn("verify callout failed: group %v, user %v: %v", groupID, userID, res.Err)
		e.send(groupID, model.Mention(userID), model.Text(fmt.Sprintf(" Verification failed: %v. Please try again later", res.Err)))
		return
	}
	if !strings.Contains(res.Decrypted, p.Code) {
		e.send(groupID, model.Mention(userID), model.Text(" Invalid code, please try again"))
		return
	}
	taken, ok := e.store.TakeMatching(key, p.Code)
	if !ok {
		// Resolved or replaced concurrently; the other path already
		// reported.
		return
	}
	e.record(model.OutcomeVerified, taken)
	log.Info("verification passed: group %v, user %v", groupID, userID)
	e.send(groupID, model.Mention(userID), model.Text(" Verification passed. Welcome!"))
}

func (e *Engine) expire(p model.PendingVerification) {
	e.record(model.OutcomeExpired, p)
	log.Info("verification expired: group %v, user %v", p.GroupID, p.UserID)
	segments := []model.Segment{
		model.Mention(p.UserID),
		model.Text(" Verification timed out. Rejoin the group or ask an admin to pass you."),
	}
	if e.timeoutAdminID != "" {
		segments = append(segments,
			model.Mention(e.timeoutAdminID),
			model.Text(" please handle"),
		)
	}
	e.send(p.GroupID, segments...)
}

func (e *Engine) sweep(now time.Time) {
	for _, p := range e.store.ListExpired(now, e.timeout+e.grace) {
		taken, ok := e.store.TakeMatching(p.Key(), p.Code)
		if !ok {
			continue
		}
		e.record(model.OutcomeExpired, taken)
		log.Info("swept expired verification: group %v, user %v", p.GroupID, p.UserID)
	}
}

// Status reports whether (groupID, userID) is pending and how long remains.
func (e *Engine) Status(groupID, userID string) (p model.PendingVerification, remaining time.Duration, ok bool) {
	p, ok = e.store.Get(model.VerificationKey{GroupID: groupID, UserID: userID})
	if !ok {
		return model.PendingVerification{}, 0, false
	}
	remaining = e.timeout - p.Age(e.now())
	if remaining < 0 {
		remaining = 0
	}
	return p, remaining, true
}

func (e *Engine) PendingByGroup(groupID string) []model.PendingVerification {
	return e.store.ListByGroup(groupID)
}

// PendingByGroupIdentifier looks a group up by its opaque web identifier.
func (e *Engine) PendingByGroupIdentifier(identifier string) []model.PendingVerification {
	var list []model.PendingVerification
	for _, p := range e.store.List() {
		if common.StringToUUID5(p.GroupID) == identifier {
			list = append(list, p)
		}
	}
	return list
}

func (e *Engine) Timeout() time.Duration {
	return e.timeout
}

func (e *Engine) record(kind model.OutcomeKind, p model.PendingVerification) {
	if e.journal == nil {
		return
	}
	err := e.journal.Record(model.VerificationOutcome{
		GroupID:    p.GroupID,
		UserID:     p.UserID,
		Code:       p.Code,
		Kind:       kind,
		CreatedAt:  p.CreatedAt,
		ResolvedAt: e.now(),
	})
	if err != nil {
		log.Warn("record outcome: %v", err)
	}
}

func (e *Engine) send(groupID string, segments ...model.Segment) {
	if err := e.sender.SendToGroup(groupID, segments); err != nil {
		log.Warn("send to group %v: %v", groupID, err)
	}
}
