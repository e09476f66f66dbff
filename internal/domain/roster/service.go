package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rpggio/knightbus/internal/domain/activity"
	"github.com/rpggio/knightbus/internal/repository"
	"github.com/rpggio/knightbus/internal/rosterfmt"
)

// Service is the roster and party state machine. Every command holds mu for
// its whole duration, so compound commands never interleave.
type Service struct {
	mu         sync.Mutex
	knights    KnightRepository
	clients    ClientRepository
	parties    PartyRepository
	activities ActivityLogger
	logger     *slog.Logger
	ids        idSource

	selectedKnights map[int64]struct{}
	selectedClients map[int64]struct{}
}

// NewService creates a new roster service.
func NewService(
	knights KnightRepository,
	clients ClientRepository,
	parties PartyRepository,
	activities ActivityLogger,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		knights:         knights,
		clients:         clients,
		parties:         parties,
		activities:      activities,
		logger:          logger,
		ids:             idSource{now: time.Now},
		selectedKnights: make(map[int64]struct{}),
		selectedClients: make(map[int64]struct{}),
	}
}

// AddKnightRequest describes a knight creation request. Power is the
// operator-facing value; it is scaled by PowerScale before storage.
type AddKnightRequest struct {
	Name  string
	Job   string
	Power float64
}

// AddClientRequest describes a client creation request.
type AddClientRequest struct {
	Name  string
	Job   string
	Power float64
	Notes string
}

// UpdateKnightRequest describes a knight edit. Nil fields are left unchanged.
type UpdateKnightRequest struct {
	ID    int64
	Name  *string
	Job   *string
	Power *float64
}

// UpdateClientRequest describes a client edit. Nil fields are left unchanged.
type UpdateClientRequest struct {
	ID    int64
	Name  *string
	Job   *string
	Power *float64
	Notes *string
}

// AddKnight creates a waiting knight.
func (s *Service) AddKnight(ctx context.Context, req AddKnightRequest) (*Knight, error) {
	if err := ValidateMemberInput(req.Name, req.Job, req.Power); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := &Knight{
		ID:         s.ids.next(),
		Name:       strings.TrimSpace(req.Name),
		Job:        strings.TrimSpace(req.Job),
		Power:      ScalePower(req.Power),
		RelayCount: 0,
		Status:     KnightWaiting,
		CreatedAt:  s.ids.now(),
	}
	if err := s.knights.Create(ctx, k); err != nil {
		return nil, fmt.Errorf("creating knight: %w", err)
	}

	s.logActivity(ctx, activity.TypeKnightAdded, k.ID, fmt.Sprintf("added knight %s", k.Name))
	return k, nil
}

// AddClient creates a waiting client.
func (s *Service) AddClient(ctx context.Context, req AddClientRequest) (*Client, error) {
	if err := ValidateMemberInput(req.Name, req.Job, req.Power); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := &Client{
		ID:        s.ids.next(),
		Name:      strings.TrimSpace(req.Name),
		Job:       strings.TrimSpace(req.Job),
		Power:     ScalePower(req.Power),
		Notes:     req.Notes,
		Status:    ClientWaiting,
		CreatedAt: s.ids.now(),
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	s.logActivity(ctx, activity.TypeClientAdded, c.ID, fmt.Sprintf("added client %s", c.Name))
	return c, nil
}

// UpdateKnight replaces a knight's descriptive fields. Status and relay count
// are never touched here.
func (s *Service) UpdateKnight(ctx context.Context, req UpdateKnightRequest) (*Knight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.getKnight(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Job != nil {
		updated.Job = strings.TrimSpace(*req.Job)
	}
	power := float64(updated.Power) / PowerScale
	if req.Power != nil {
		power = *req.Power
		updated.Power = ScalePower(power)
	}
	if err := ValidateMemberInput(updated.Name, updated.Job, power); err != nil {
		return nil, err
	}

	if err := s.knights.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrKnightNotFound
		}
		return nil, fmt.Errorf("updating knight: %w", err)
	}

	s.logActivity(ctx, activity.TypeKnightUpdated, updated.ID, fmt.Sprintf("updated knight %s", updated.Name))
	return &updated, nil
}

// UpdateClient replaces a client's descriptive fields.
func (s *Service) UpdateClient(ctx context.Context, req UpdateClientRequest) (*Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.getClient(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Job != nil {
		updated.Job = strings.TrimSpace(*req.Job)
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	power := float64(updated.Power) / PowerScale
	if req.Power != nil {
		power = *req.Power
		updated.Power = ScalePower(power)
	}
	if err := ValidateMemberInput(updated.Name, updated.Job, power); err != nil {
		return nil, err
	}

	if err := s.clients.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("updating client: %w", err)
	}

	s.logActivity(ctx, activity.TypeClientUpdated, updated.ID, fmt.Sprintf("updated client %s", updated.Name))
	return &updated, nil
}

// DeleteKnight removes a knight in any status. Party snapshots that list the
// knight are left as they are.
func (s *Service) DeleteKnight(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.knights.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrKnightNotFound
		}
		return fmt.Errorf("deleting knight: %w", err)
	}
	delete(s.selectedKnights, id)

	s.logActivity(ctx, activity.TypeKnightDeleted, id, fmt.Sprintf("deleted knight %d", id))
	return nil
}

// DeleteClient removes a client in any status.
func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.clients.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("deleting client: %w", err)
	}
	delete(s.selectedClients, id)

	s.logActivity(ctx, activity.TypeClientDeleted, id, fmt.Sprintf("deleted client %d", id))
	return nil
}

// ToggleSelection flips the selection of a waiting knight or client and
// reports whether it is now selected. Members that are not waiting cannot be
// selected; for them the selection is left untouched.
func (s *Service) ToggleSelection(ctx context.Context, kind Kind, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case KindKnight:
		k, err := s.getKnight(ctx, id)
		if err != nil {
			return false, err
		}
		return toggle(s.selectedKnights, id, k.Status == KnightWaiting), nil
	case KindClient:
		c, err := s.getClient(ctx, id)
		if err != nil {
			return false, err
		}
		return toggle(s.selectedClients, id, c.Status == ClientWaiting), nil
	default:
		return false, ErrInvalidInput
	}
}

func toggle(set map[int64]struct{}, id int64, eligible bool) bool {
	_, selected := set[id]
	if !eligible {
		return selected
	}
	if selected {
		delete(set, id)
		return false
	}
	set[id] = struct{}{}
	return true
}

// Selection returns the pending selection in ascending id order.
func (s *Service) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection()
}

func (s *Service) selection() Selection {
	return Selection{
		KnightIDs: sortedIDs(s.selectedKnights),
		ClientIDs: sortedIDs(s.selectedClients),
	}
}

// ClearSelection drops every pending selection.
func (s *Service) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.selectedKnights)
	clear(s.selectedClients)
}

// FormParty binds every selected knight and client into a new party. Either
// all members move to in-party and the selection is cleared, or nothing
// changes.
func (s *Service) FormParty(ctx context.Context) (*Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.selectedKnights) == 0 || len(s.selectedClients) == 0 {
		return nil, ErrEmptySelection
	}

	sel := s.selection()
	party, err := s.parties.Form(ctx, FormRequest{
		KnightIDs: sel.KnightIDs,
		ClientIDs: sel.ClientIDs,
		FormedAt:  s.ids.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrConflict) {
			return nil, ErrMemberUnavailable
		}
		return nil, fmt.Errorf("forming party: %w", err)
	}

	clear(s.selectedKnights)
	clear(s.selectedClients)

	s.logger.Info("party formed", "party_id", party.ID, "knights", len(party.Knights), "clients", len(party.Clients))
	s.logActivity(ctx, activity.TypePartyFormed, party.ID,
		fmt.Sprintf("formed %s with %d knights and %d clients", PartyLabel(party.ID), len(party.Knights), len(party.Clients)))
	return party, nil
}

// CompleteMission finishes a party: its knights gain a relay and return to
// waiting, its clients become completed, and the party is removed. A second
// call for the same party reports ErrPartyNotFound and changes nothing.
func (s *Service) CompleteMission(ctx context.Context, partyID int64) (*MissionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.parties.Complete(ctx, partyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, fmt.Errorf("completing mission: %w", err)
	}

	s.logger.Info("mission completed", "party_id", partyID, "knights", len(result.ReturnedKnights), "clients", len(result.CompletedClients))
	s.logActivity(ctx, activity.TypeMissionCompleted, partyID, fmt.Sprintf("completed mission of %s", PartyLabel(partyID)))
	return result, nil
}

// ToggleKnightDuty moves a knight between waiting and off duty. Knights in a
// party are returned unchanged.
func (s *Service) ToggleKnightDuty(ctx context.Context, id int64) (*Knight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.getKnight(ctx, id)
	if err != nil {
		return nil, err
	}

	var to KnightStatus
	switch current.Status {
	case KnightWaiting:
		to = KnightOffDuty
	case KnightOffDuty:
		to = KnightWaiting
	default:
		return current, nil
	}
	if err := ValidateKnightTransition(current.Status, to); err != nil {
		return nil, err
	}

	updated := *current
	updated.Status = to
	if err := s.knights.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrKnightNotFound
		}
		return nil, fmt.Errorf("toggling duty: %w", err)
	}
	if to == KnightOffDuty {
		delete(s.selectedKnights, id)
	}

	s.logActivity(ctx, activity.TypeKnightDutyToggled, id, fmt.Sprintf("knight %s is now %s", updated.Name, KnightStatusLabel(to, 0)))
	return &updated, nil
}

// ExportKnightRoster renders every knight in display order using the roster
// text format.
func (s *Service) ExportKnightRoster(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	knights, err := s.knights.List(ctx)
	if err != nil {
		return "", fmt.Errorf("listing knights: %w", err)
	}
	SortKnights(knights)

	lines := make([]rosterfmt.Line, 0, len(knights))
	for _, k := range knights {
		lines = append(lines, rosterfmt.Line{
			Name:       k.Name,
			Job:        k.Job,
			Power:      k.Power,
			RelayCount: k.RelayCount,
		})
	}
	return rosterfmt.Encode(lines), nil
}

// ImportKnightRoster adds an off-duty knight for every well-formed line.
// Malformed lines are counted and skipped; they never abort the import.
func (s *Service) ImportKnightRoster(ctx context.Context, text string) (ImportSummary, error) {
	lines, skipped := rosterfmt.Decode(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(lines) == 0 {
		return ImportSummary{Imported: 0, Skipped: skipped}, nil
	}

	now := s.ids.now()
	knights := make([]*Knight, 0, len(lines))
	for _, line := range lines {
		knights = append(knights, &Knight{
			ID:         s.ids.next(),
			Name:       line.Name,
			Job:        line.Job,
			Power:      line.Power,
			RelayCount: line.RelayCount,
			Status:     KnightOffDuty,
			CreatedAt:  now,
		})
	}
	if err := s.knights.CreateBatch(ctx, knights); err != nil {
		return ImportSummary{}, fmt.Errorf("importing knights: %w", err)
	}

	summary := ImportSummary{Imported: len(knights), Skipped: skipped}
	s.logger.Info("roster imported", "imported", summary.Imported, "skipped", summary.Skipped)
	s.logActivity(ctx, activity.TypeRosterImported, 0,
		fmt.Sprintf("imported %d knights, skipped %d lines", summary.Imported, summary.Skipped))
	return summary, nil
}

// GetKnight returns a knight by ID.
func (s *Service) GetKnight(ctx context.Context, id int64) (*Knight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getKnight(ctx, id)
}

// GetClient returns a client by ID.
func (s *Service) GetClient(ctx context.Context, id int64) (*Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getClient(ctx, id)
}

// GetParty returns a live party by ID.
func (s *Service) GetParty(ctx context.Context, id int64) (*Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	party, err := s.parties.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, fmt.Errorf("getting party: %w", err)
	}
	return party, nil
}

// ListKnights returns knights in display order.
func (s *Service) ListKnights(ctx context.Context) ([]Knight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	knights, err := s.knights.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing knights: %w", err)
	}
	SortKnights(knights)
	return knights, nil
}

// ListClients returns clients in display order.
func (s *Service) ListClients(ctx context.Context) ([]Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	SortClients(clients)
	return clients, nil
}

// ListParties returns live parties ordered by id.
func (s *Service) ListParties(ctx context.Context) ([]Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parties, err := s.parties.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing parties: %w", err)
	}
	return parties, nil
}

// Snapshot returns the whole roster prepared for rendering.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	knights, err := s.knights.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing knights: %w", err)
	}
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	parties, err := s.parties.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing parties: %w", err)
	}
	SortKnights(knights)
	SortClients(clients)

	snap := &Snapshot{
		Knights:   make([]KnightView, 0, len(knights)),
		Clients:   make([]ClientView, 0, len(clients)),
		Parties:   parties,
		Selection: s.selection(),
	}
	if snap.Parties == nil {
		snap.Parties = []Party{}
	}
	for _, k := range knights {
		label, err := s.knightLabel(ctx, k)
		if err != nil {
			return nil, err
		}
		_, selected := s.selectedKnights[k.ID]
		snap.Knights = append(snap.Knights, KnightView{
			Knight:       k,
			StatusLabel:  label,
			PowerDisplay: FormatPower(k.Power),
			Selected:     selected,
		})
	}
	for _, c := range clients {
		label, err := s.clientLabel(ctx, c)
		if err != nil {
			return nil, err
		}
		_, selected := s.selectedClients[c.ID]
		snap.Clients = append(snap.Clients, ClientView{
			Client:       c,
			StatusLabel:  label,
			PowerDisplay: FormatPower(c.Power),
			Selected:     selected,
		})
	}
	return snap, nil
}

// knightLabel resolves the party of an in-party knight through the party
// membership index. A knight no live party lists gets UnknownPartyLabel.
func (s *Service) knightLabel(ctx context.Context, k Knight) (string, error) {
	if k.Status != KnightInParty {
		return KnightStatusLabel(k.Status, 0), nil
	}
	partyID, err := s.parties.FindByKnight(ctx, k.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("finding party: %w", err)
	}
	return KnightStatusLabel(k.Status, partyID), nil
}

func (s *Service) clientLabel(ctx context.Context, c Client) (string, error) {
	if c.Status != ClientInParty {
		return ClientStatusLabel(c.Status, 0), nil
	}
	partyID, err := s.parties.FindByClient(ctx, c.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("finding party: %w", err)
	}
	return ClientStatusLabel(c.Status, partyID), nil
}

func (s *Service) getKnight(ctx context.Context, id int64) (*Knight, error) {
	k, err := s.knights.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrKnightNotFound
		}
		return nil, fmt.Errorf("getting knight: %w", err)
	}
	return k, nil
}

func (s *Service) getClient(ctx context.Context, id int64) (*Client, error) {
	c, err := s.clients.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("getting client: %w", err)
	}
	return c, nil
}

func (s *Service) logActivity(ctx context.Context, typ activity.ActivityType, subjectID int64, summary string) {
	if s.activities == nil {
		return
	}
	entry := &activity.ActivityEntry{
		ActivityType: typ,
		SubjectID:    subjectID,
		Summary:      summary,
		CreatedAt:    s.ids.now(),
	}
	if err := s.activities.LogActivity(ctx, entry); err != nil {
		s.logger.Warn("failed to log activity", "type", typ, "error", err)
	}
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
