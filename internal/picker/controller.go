package picker

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/tripstudioapp/tripstudio/internal/media"
)

// Options configures one picker instance.
type Options struct {
	// Multiple allows more than one selected asset. When false, toggling
	// collapses the selection to the toggled id.
	Multiple bool
	// PageSize is the browsing page size; the media service clamps it.
	PageSize int
	// InitialSelection seeds selectedIds (first entry becomes hero).
	InitialSelection []string
	// Debounce is the quiet period coalescing query changes. Zero applies
	// query changes immediately.
	Debounce time.Duration
	// RefreshDelay is the lag before the authoritative refresh that follows
	// an upload.
	RefreshDelay time.Duration
}

// Controller is the picker state machine. All state is owned by one
// instance and discarded on Close; nothing here is persisted remotely.
// A single in-flight guard serializes browsing fetches, and each dispatched
// fetch carries a generation so a late response cannot overwrite fresher
// state.
type Controller struct {
	api          MediaAPI
	logger       *slog.Logger
	multiple     bool
	debounce     time.Duration
	refreshDelay time.Duration

	mu         sync.Mutex
	opened     bool
	closed     bool
	pageSize   int
	query      string
	library    []media.Asset
	selected   []string
	heroID     string
	pageStack  []pageEntry
	pageInfo   media.PageInfo
	inFlight   bool
	uploading  bool
	generation uint64
	notice     string

	debounceTimer *time.Timer
	refreshTimer  *time.Timer
}

func NewController(log *slog.Logger, api MediaAPI, opts Options) *Controller {
	if log == nil {
		log = slog.Default()
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 60
	}

	selected := make([]string, 0, len(opts.InitialSelection))
	for _, id := range opts.InitialSelection {
		if id == "" || slices.Contains(selected, id) {
			continue
		}
		selected = append(selected, id)
	}
	hero := ""
	if len(selected) > 0 {
		hero = selected[0]
	}

	return &Controller{
		api:          api,
		logger:       log.With(slog.String("service", "picker")),
		multiple:     opts.Multiple,
		debounce:     opts.Debounce,
		refreshDelay: opts.RefreshDelay,
		pageSize:     pageSize,
		selected:     selected,
		heroID:       hero,
		pageStack:    []pageEntry{{Num: 1}},
	}
}

// Open marks the picker visible and issues the initial listing fetch.
func (c *Controller) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.opened = true
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Close discards the instance. Pending timers are stopped; every later
// operation fails with ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.opened = false
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
	}
	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
	}
}

// Refresh resets the cursor stack to page one and fetches.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.opened {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrRequestInFlight
	}
	gen := c.beginFetchLocked(true)
	pageSize := c.pageSize
	c.mu.Unlock()

	res, err := c.api.List(ctx, pageSize, "")
	return c.completeFetch(gen, res, err)
}

// SetQuery records a free-text filter change. Changes are coalesced over the
// debounce window, then trigger a reset-to-page-1 fetch. The query itself is
// not forwarded to the remote listing yet.
func (c *Controller) SetQuery(ctx context.Context, query string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.query = query
	if c.debounce <= 0 {
		c.mu.Unlock()
		return c.Refresh(ctx)
	}
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
	}
	c.debounceTimer = time.AfterFunc(c.debounce, func() {
		if err := c.Refresh(context.Background()); err != nil && !errors.Is(err, ErrClosed) && !errors.Is(err, ErrRequestInFlight) {
			c.logger.Warn("debounced refresh failed", slog.Any("error", err))
		}
	})
	c.mu.Unlock()
	return nil
}

// SetPageSize changes the browsing page size and re-fetches from page one.
func (c *Controller) SetPageSize(ctx context.Context, pageSize int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if pageSize > 0 {
		c.pageSize = pageSize
	}
	opened := c.opened
	c.mu.Unlock()
	if !opened {
		return nil
	}
	return c.Refresh(ctx)
}

// NextPage pushes the current end cursor and fetches the next page. It is a
// no-op when the current page reports no next page.
func (c *Controller) NextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.pageInfo.HasNextPage || c.pageInfo.EndCursor == "" {
		c.mu.Unlock()
		return nil
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrRequestInFlight
	}
	after := c.pageInfo.EndCursor
	c.pageStack = append(c.pageStack, pageEntry{After: after, Num: len(c.pageStack) + 1})
	gen := c.beginFetchLocked(false)
	pageSize := c.pageSize
	c.mu.Unlock()

	res, err := c.api.List(ctx, pageSize, after)
	return c.completeFetch(gen, res, err)
}

// PrevPage pops the cursor stack and re-fetches the prior page. It is a
// no-op on the first page.
func (c *Controller) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if len(c.pageStack) <= 1 {
		c.mu.Unlock()
		return nil
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrRequestInFlight
	}
	c.pageStack = c.pageStack[:len(c.pageStack)-1]
	after := c.pageStack[len(c.pageStack)-1].After
	gen := c.beginFetchLocked(false)
	pageSize := c.pageSize
	c.mu.Unlock()

	res, err := c.api.List(ctx, pageSize, after)
	return c.completeFetch(gen, res, err)
}

func (c *Controller) beginFetchLocked(reset bool) uint64 {
	if reset {
		c.pageStack = []pageEntry{{Num: 1}}
	}
	c.inFlight = true
	c.generation++
	return c.generation
}

func (c *Controller) completeFetch(gen uint64, res media.ListResult, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		// Prior library contents stay on screen.
		c.notice = "failed to load media library"
		c.logger.Warn("listing fetch failed", slog.Any("error", err))
		return err
	}
	if gen != c.generation {
		// A newer fetch was dispatched while this one was outstanding.
		return nil
	}
	c.library = res.Assets
	c.pageInfo = res.PageInfo
	c.notice = ""
	return nil
}

// Upload runs the staged-upload pipeline, prepends the returned records
// optimistically, and schedules one authoritative refresh so the remote
// index catching up is eventually reflected.
func (c *Controller) Upload(ctx context.Context, files []media.UploadFile) ([]media.Asset, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.uploading {
		c.mu.Unlock()
		return nil, ErrUploadInProgress
	}
	c.uploading = true
	c.mu.Unlock()

	assets, err := c.api.Upload(ctx, files)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploading = false
	if err != nil {
		c.notice = "upload failed"
		c.logger.Warn("upload failed", slog.Any("error", err))
		return nil, err
	}
	if len(assets) > 0 {
		c.library = append(slices.Clone(assets), c.library...)
		ids := make([]string, 0, len(assets))
		for _, a := range assets {
			if !slices.Contains(c.selected, a.ID) {
				ids = append(ids, a.ID)
			}
		}
		c.selected = append(ids, c.selected...)
		if c.heroID == "" {
			c.heroID = assets[0].ID
		}
	}
	c.notice = ""
	c.scheduleRefreshLocked()
	return assets, nil
}

func (c *Controller) scheduleRefreshLocked() {
	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
	}
	c.refreshTimer = time.AfterFunc(c.refreshDelay, func() {
		if err := c.Refresh(context.Background()); err != nil && !errors.Is(err, ErrClosed) && !errors.Is(err, ErrRequestInFlight) {
			c.logger.Warn("post-upload refresh failed", slog.Any("error", err))
		}
	})
}

// Toggle flips an asset in or out of the selection. Single-select pickers
// collapse to exactly the toggled id, which also becomes hero.
func (c *Controller) Toggle(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || id == "" {
		return
	}
	if !c.multiple {
		c.selected = []string{id}
		c.heroID = id
		return
	}
	if i := slices.Index(c.selected, id); i >= 0 {
		c.selected = slices.Delete(c.selected, i, i+1)
		c.ensureHeroLocked()
		return
	}
	c.selected = append(c.selected, id)
}

// SetHero marks a currently selected asset as the primary image.
func (c *Controller) SetHero(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !slices.Contains(c.selected, id) {
		return ErrNotSelected
	}
	c.heroID = id
	return nil
}

// MoveUp swaps the selection entry at idx with its predecessor. A no-op at
// index zero or out of range.
func (c *Controller) MoveUp(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || idx <= 0 || idx >= len(c.selected) {
		return
	}
	c.selected[idx], c.selected[idx-1] = c.selected[idx-1], c.selected[idx]
}

// MoveDown swaps the selection entry at idx with its successor. A no-op at
// the last index or out of range.
func (c *Controller) MoveDown(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || idx < 0 || idx >= len(c.selected)-1 {
		return
	}
	c.selected[idx], c.selected[idx+1] = c.selected[idx+1], c.selected[idx]
}

// Remove drops an asset from the selection. Removing the hero clears hero.
func (c *Controller) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if i := slices.Index(c.selected, id); i >= 0 {
		c.selected = slices.Delete(c.selected, i, i+1)
	}
	c.ensureHeroLocked()
}

func (c *Controller) ensureHeroLocked() {
	if c.heroID != "" && !slices.Contains(c.selected, c.heroID) {
		c.heroID = ""
	}
}

// Confirm emits the final selection. It is inert while nothing is selected;
// a stale or absent hero defaults to the first selected id.
func (c *Controller) Confirm() (Selection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Selection{}, ErrClosed
	}
	if len(c.selected) == 0 {
		return Selection{}, ErrEmptySelection
	}
	hero := c.heroID
	if hero == "" || !slices.Contains(c.selected, hero) {
		hero = c.selected[0]
	}
	nodes := make([]media.Asset, 0, len(c.selected))
	for _, a := range c.library {
		if slices.Contains(c.selected, a.ID) {
			nodes = append(nodes, a)
		}
	}
	return Selection{
		HeroID:     hero,
		GalleryIDs: slices.Clone(c.selected),
		Nodes:      nodes,
	}, nil
}

// State returns a render snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Library:     slices.Clone(c.library),
		SelectedIDs: slices.Clone(c.selected),
		HeroID:      c.heroID,
		PageNum:     c.pageStack[len(c.pageStack)-1].Num,
		PageInfo:    c.pageInfo,
		PageSize:    c.pageSize,
		Query:       c.query,
		Multiple:    c.multiple,
		Uploading:   c.uploading,
		Loading:     c.inFlight,
		Notice:      c.notice,
	}
}
