// Package controller reconciles credentials, the active campaign
// selection and the paginated call list for the calls region of the
// dashboard. Credentials are always re-read from the persisted store
// at fetch time so a change made by another region is never acted on
// from a stale in-memory copy.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ai-scaleup/pearl-whitelabel/internal/daterange"
	"github.com/ai-scaleup/pearl-whitelabel/internal/events"
	"github.com/ai-scaleup/pearl-whitelabel/internal/pearl"
	"github.com/ai-scaleup/pearl-whitelabel/internal/store"
)

// API is the upstream surface the controller needs. *pearl.Client
// implements it.
type API interface {
	GetUser(ctx context.Context, id string) (*pearl.User, error)
	GetCampaignsByEmail(ctx context.Context, email string) ([]pearl.Campaign, error)
	ListCalls(ctx context.Context, outboundID, bearer string, req pearl.ListCallsRequest) (*pearl.CallsPage, error)
	GetCallDetails(ctx context.Context, callID, bearer string) (*pearl.CallDetail, error)
	ValidateCredentials(ctx context.Context, bearer, outboundID string) error
}

// CredentialStore is the persisted credential surface the controller
// needs. *store.Store implements it.
type CredentialStore interface {
	Credentials() (store.Credentials, error)
	SaveCredentials(bearerToken, outboundID string) error
}

// Identity supplies the signed-in operator. A nil user with a nil
// error means no session.
type Identity interface {
	CurrentUser(ctx context.Context) (*pearl.User, error)
}

// Notifier is the presentation boundary for transient notifications.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// State is the list-level state of the controller.
type State int

const (
	// StateUnauthenticated means no operator session; nothing is fetched.
	StateUnauthenticated State = iota
	// StateUnconfigured means credentials are missing from the store.
	StateUnconfigured
	// StateCampaignsLoading means the campaign list fetch is in flight.
	StateCampaignsLoading
	// StateConfigured means credentials are present and calls can be listed.
	StateConfigured
)

// MaxLimit is the largest accepted page size.
const MaxLimit = 5000

// Filter is the call-list query state.
type Filter struct {
	Skip                 int
	Limit                int
	SortProp             string
	IsAscending          bool
	FromDate             string
	ToDate               string
	Statuses             []int
	ConversationStatuses []int
	SearchInput          string
}

// FilterOverride merges over the current filter; nil fields keep the
// current value.
type FilterOverride struct {
	Skip     *int
	Limit    *int
	FromDate *string
	ToDate   *string
	Statuses []int
}

// Snapshot is a consistent copy of the controller state for rendering.
type Snapshot struct {
	State             State
	PromptCredentials bool
	User              *pearl.User
	Campaigns         []pearl.Campaign
	SelectedCampaign  *pearl.Campaign
	Filter            Filter
	Calls             []pearl.CallSummary
	Total             int
	Fetching          bool
	SelectedCall      *pearl.CallSummary
	Detail            *pearl.CallDetail
	DetailLoading     bool
}

// Controller owns the calls-region session state. All exported methods
// are safe for concurrent use; the mutex is never held across a
// network call.
type Controller struct {
	api      API
	store    CredentialStore
	identity Identity
	notifier Notifier
	bus      *events.Bus
	logger   *slog.Logger

	mu                sync.Mutex
	state             State
	promptCredentials bool
	user              *pearl.User
	campaigns         []pearl.Campaign
	selectedCampaign  *pearl.Campaign
	filter            Filter
	calls             []pearl.CallSummary
	total             int
	fetching          bool
	refreshing        bool

	// generation guards against out-of-order fetch completion: a
	// completing list fetch whose generation is no longer current
	// discards its results instead of overwriting fresher state.
	generation uint64

	selectedCall  *pearl.CallSummary
	detail        *pearl.CallDetail
	detailLoading bool
}

// New creates a controller with the default filter: first page of 100,
// newest first, last 30 days.
func New(api API, credStore CredentialStore, identity Identity, notifier Notifier, bus *events.Bus, logger *slog.Logger) *Controller {
	from, to := daterange.Default()
	return &Controller{
		api:      api,
		store:    credStore,
		identity: identity,
		notifier: notifier,
		bus:      bus,
		logger:   logger,
		state:    StateUnauthenticated,
		filter: Filter{
			Skip:        0,
			Limit:       100,
			SortProp:    "startTime",
			IsAscending: false,
			FromDate:    from,
			ToDate:      to,
		},
	}
}

// Run starts the controller and consumes campaign-change events until
// the context is done.
func (c *Controller) Run(ctx context.Context) {
	c.Start(ctx)

	ch, cancel := c.bus.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			c.handleCampaignChanged(ctx, e)
		}
	}
}

// Start performs the mount sequence: read the operator identity, fetch
// its campaigns and, when a persisted selection resolves, the first
// page of calls.
func (c *Controller) Start(ctx context.Context) {
	user, err := c.identity.CurrentUser(ctx)
	if err != nil {
		c.logger.Error("failed to read identity", "error", err)
		c.notifier.Error("Errore", "Impossibile recuperare i dati utente. Riprova.")
		return
	}
	if user == nil {
		c.mu.Lock()
		c.state = StateUnauthenticated
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.user = user
	c.mu.Unlock()

	c.fetchCampaigns(ctx, user.Email)
}

// fetchCampaigns loads the campaign list for the operator email and
// reconciles it with the persisted selection.
func (c *Controller) fetchCampaigns(ctx context.Context, email string) {
	if email == "" {
		return
	}

	c.mu.Lock()
	c.state = StateCampaignsLoading
	c.mu.Unlock()

	campaigns, err := c.api.GetCampaignsByEmail(ctx, email)
	if err != nil {
		c.logger.Error("failed to fetch campaigns", "email", email, "error", err)
		c.notifier.Error("Errore", "Impossibile recuperare le campagne.")
		campaigns = nil
	}

	// A storage failure degrades to "never configured" here.
	creds, credErr := c.store.Credentials()
	if credErr != nil {
		c.logger.Warn("failed to read stored credentials", "error", credErr)
		creds = store.Credentials{}
	}

	c.mu.Lock()
	c.campaigns = campaigns
	if creds.Configured() {
		c.selectedCampaign = findCampaign(campaigns, creds.CampaignID)
		c.state = StateConfigured
		c.promptCredentials = false
		c.mu.Unlock()
		c.FetchCalls(ctx, nil)
		return
	}

	c.state = StateUnconfigured
	c.selectedCampaign = nil
	c.promptCredentials = len(campaigns) == 0
	c.mu.Unlock()

	if len(campaigns) == 0 && err == nil {
		c.notifier.Error("Nessuna campagna", "Nessuna campagna trovata per questa email.")
	}
}

// FetchCalls merges the override over the current filter and replaces
// the call list. Credentials come from the store at call time, not
// from controller state. Failures are reported through the notifier
// and leave an empty, labeled list; nothing propagates to the caller.
func (c *Controller) FetchCalls(ctx context.Context, override *FilterOverride) {
	c.mu.Lock()
	applyOverride(&c.filter, override)

	creds, err := c.store.Credentials()
	if err != nil {
		c.logger.Warn("failed to read stored credentials", "error", err)
		creds = store.Credentials{}
	}
	if !creds.Configured() {
		c.state = StateUnconfigured
		c.fetching = false
		c.mu.Unlock()
		return
	}

	c.generation++
	gen := c.generation
	filter := c.filter
	c.state = StateConfigured
	c.fetching = true
	c.mu.Unlock()

	page, fetchErr := c.api.ListCalls(ctx, creds.OutboundID, creds.BearerToken, pearl.ListCallsRequest{
		Skip:     filter.Skip,
		Limit:    filter.Limit,
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
		Statuses: filter.Statuses,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		// A newer fetch superseded this one while it was in flight.
		c.logger.Debug("discarding stale call list", "generation", gen, "current", c.generation)
		return
	}
	c.fetching = false

	if fetchErr != nil {
		if errors.Is(fetchErr, pearl.ErrMalformedResponse) {
			c.notifier.Error("Errore", "Formato di risposta API non valido.")
		} else {
			c.logger.Error("failed to fetch calls", "error", fetchErr)
			c.notifier.Error("Errore", errorMessage(fetchErr))
		}
		c.calls = nil
		c.total = 0
		return
	}

	c.calls = page.Results
	c.total = page.Total()
}

// Refresh re-reads identity, campaigns and the call list, announcing
// success. Concurrent refreshes collapse into one.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.refreshing {
		c.mu.Unlock()
		return
	}
	c.refreshing = true
	user := c.user
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.refreshing = false
		c.mu.Unlock()
	}()

	if user == nil {
		c.Start(ctx)
	} else {
		c.fetchCampaigns(ctx, user.Email)
	}

	c.mu.Lock()
	n := len(c.calls)
	state := c.state
	c.mu.Unlock()
	if state == StateConfigured {
		c.notifier.Success("Operazione riuscita", fmt.Sprintf("Caricate %d chiamate con successo!", n))
	}
}

// SubmitCredentials validates the pair against the upstream before
// persisting anything. On success the pair is stored trimmed and the
// list is fetched immediately; on failure nothing is persisted and the
// error is returned so the prompt stays open.
func (c *Controller) SubmitCredentials(ctx context.Context, bearerToken, outboundID string) error {
	bearerToken = strings.TrimSpace(bearerToken)
	outboundID = strings.TrimSpace(outboundID)
	if bearerToken == "" || outboundID == "" {
		return errors.New("bearer token and outbound id are required")
	}

	if err := c.api.ValidateCredentials(ctx, bearerToken, outboundID); err != nil {
		c.logger.Warn("credential validation failed", "error", err)
		c.notifier.Error("Errore", errorMessage(err))
		return err
	}

	if err := c.store.SaveCredentials(bearerToken, outboundID); err != nil {
		c.logger.Error("failed to persist credentials", "error", err)
		c.notifier.Error("Errore", errorMessage(err))
		return err
	}

	c.mu.Lock()
	c.promptCredentials = false
	c.mu.Unlock()

	c.notifier.Success("Operazione riuscita", "Credenziali salvate correttamente!")
	c.FetchCalls(ctx, nil)
	return nil
}

// handleCampaignChanged reacts to another region changing the stored
// selection: re-read the store and either refetch or revert to
// unconfigured.
func (c *Controller) handleCampaignChanged(ctx context.Context, e events.CampaignChanged) {
	creds, err := c.store.Credentials()
	if err != nil {
		c.logger.Warn("failed to read stored credentials", "error", err)
		creds = store.Credentials{}
	}

	c.mu.Lock()
	if !creds.Configured() {
		c.state = StateUnconfigured
		c.selectedCampaign = nil
		c.mu.Unlock()
		return
	}

	campaignID := e.CampaignID
	if campaignID == "" {
		campaignID = creds.CampaignID
	}
	if found := findCampaign(c.campaigns, campaignID); found != nil {
		c.selectedCampaign = found
	}
	c.state = StateConfigured
	c.mu.Unlock()

	c.FetchCalls(ctx, nil)
}

// SelectCall opens the detail sub-state for a call and fetches its
// full record. The list state is untouched.
func (c *Controller) SelectCall(ctx context.Context, call pearl.CallSummary) {
	c.mu.Lock()
	selected := call
	c.selectedCall = &selected
	c.detail = nil
	c.detailLoading = true
	c.mu.Unlock()

	creds, err := c.store.Credentials()
	if err != nil || creds.BearerToken == "" {
		c.mu.Lock()
		c.detailLoading = false
		c.mu.Unlock()
		return
	}

	detail, err := c.api.GetCallDetails(ctx, call.ID, creds.BearerToken)

	c.mu.Lock()
	defer c.mu.Unlock()

	// The panel may have been closed, or another row selected, while
	// the fetch was in flight.
	if c.selectedCall == nil || c.selectedCall.ID != call.ID {
		return
	}
	c.detailLoading = false

	if err != nil {
		c.logger.Error("failed to fetch call details", "call_id", call.ID, "error", err)
		c.notifier.Error("Errore", "Impossibile recuperare i dettagli della chiamata.")
		return
	}
	c.detail = detail
}

// CloseDetail clears the selection and any loaded detail, whether or
// not the detail fetch has completed.
func (c *Controller) CloseDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedCall = nil
	c.detail = nil
	c.detailLoading = false
}

// NextPage advances one page and refetches.
func (c *Controller) NextPage(ctx context.Context) {
	c.mu.Lock()
	skip := c.filter.Skip + c.filter.Limit
	c.mu.Unlock()
	c.FetchCalls(ctx, &FilterOverride{Skip: &skip})
}

// PrevPage goes back one page, clamped at the start, and refetches.
func (c *Controller) PrevPage(ctx context.Context) {
	c.mu.Lock()
	skip := c.filter.Skip - c.filter.Limit
	if skip < 0 {
		skip = 0
	}
	c.mu.Unlock()
	c.FetchCalls(ctx, &FilterOverride{Skip: &skip})
}

// SetLimit changes the page size, resets to the first page and
// refetches. Accepted range is 1 through MaxLimit.
func (c *Controller) SetLimit(ctx context.Context, limit int) error {
	if limit < 1 || limit > MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}
	zero := 0
	c.FetchCalls(ctx, &FilterOverride{Skip: &zero, Limit: &limit})
	return nil
}

// CanNext reports whether another page exists.
func (c *Controller) CanNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Skip+c.filter.Limit < c.total
}

// CanPrev reports whether a previous page exists.
func (c *Controller) CanPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Skip > 0
}

// Page returns the 1-based current page number.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Skip/c.filter.Limit + 1
}

// PageCount returns the number of pages, at least 1.
func (c *Controller) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	pages := (c.total + c.filter.Limit - 1) / c.filter.Limit
	if pages < 1 {
		return 1
	}
	return pages
}

// Snapshot returns a copy of the current state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:             c.state,
		PromptCredentials: c.promptCredentials,
		User:              c.user,
		Campaigns:         append([]pearl.Campaign(nil), c.campaigns...),
		Filter:            c.filter,
		Calls:             append([]pearl.CallSummary(nil), c.calls...),
		Total:             c.total,
		Fetching:          c.fetching,
		Detail:            c.detail,
		DetailLoading:     c.detailLoading,
	}
	if c.selectedCampaign != nil {
		campaign := *c.selectedCampaign
		snap.SelectedCampaign = &campaign
	}
	if c.selectedCall != nil {
		call := *c.selectedCall
		snap.SelectedCall = &call
	}
	return snap
}

func applyOverride(f *Filter, o *FilterOverride) {
	if o == nil {
		return
	}
	if o.Skip != nil {
		f.Skip = *o.Skip
	}
	if o.Limit != nil {
		f.Limit = *o.Limit
	}
	if o.FromDate != nil {
		f.FromDate = *o.FromDate
	}
	if o.ToDate != nil {
		f.ToDate = *o.ToDate
	}
	if o.Statuses != nil {
		f.Statuses = o.Statuses
	}
}

func findCampaign(campaigns []pearl.Campaign, id string) *pearl.Campaign {
	if id == "" {
		return nil
	}
	for i := range campaigns {
		if campaigns[i].ID == id {
			return &campaigns[i]
		}
	}
	return nil
}

func errorMessage(err error) string {
	if err == nil {
		return "Impossibile connettersi al server."
	}
	return err.Error()
}
