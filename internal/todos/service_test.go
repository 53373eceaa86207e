package todos

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/halcyonlabs/punchlist/internal/apperr"
	"github.com/halcyonlabs/punchlist/internal/records"
	"github.com/halcyonlabs/punchlist/internal/storage"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	collection := storage.NewCollection[Todo](afero.NewMemMapFs(), "data/todos.json", zap.NewNop())
	service, err := NewService(ServiceConfig{
		Collection: collection,
		IDProvider: records.NewUUIDProvider(),
	})
	if err != nil {
		t.Fatalf("unexpected service constructor error: %v", err)
	}
	return service
}

func decodeCreate(t *testing.T, payload string) CreateRequest {
	t.Helper()
	var request CreateRequest
	if err := json.Unmarshal([]byte(payload), &request); err != nil {
		t.Fatalf("failed to decode create payload: %v", err)
	}
	return request
}

func decodeUpdate(t *testing.T, payload string) UpdateRequest {
	t.Helper()
	var request UpdateRequest
	if err := json.Unmarshal([]byte(payload), &request); err != nil {
		t.Fatalf("failed to decode update payload: %v", err)
	}
	return request
}

func decodePatch(t *testing.T, payload string) PatchRequest {
	t.Helper()
	var request PatchRequest
	if err := json.Unmarshal([]byte(payload), &request); err != nil {
		t.Fatalf("failed to decode patch payload: %v", err)
	}
	return request
}

func mustCreate(t *testing.T, service *Service, principal, payload string) Todo {
	t.Helper()
	created, err := service.Create(context.Background(), principal, decodeCreate(t, payload))
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	return created
}

func TestCreateAppliesDefaults(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"Buy milk"}`)

	if created.Title != "Buy milk" {
		t.Fatalf("unexpected title %q", created.Title)
	}
	if created.OwnerID != "ann" {
		t.Fatalf("unexpected owner %q", created.OwnerID)
	}
	if created.Description != "" {
		t.Fatalf("expected empty description, got %q", created.Description)
	}
	if created.DueDate != nil {
		t.Fatalf("expected nil due date, got %v", *created.DueDate)
	}
	if created.Priority != PriorityLow {
		t.Fatalf("expected low priority, got %q", created.Priority)
	}
	if created.IsCompleted {
		t.Fatal("expected new todo to be incomplete")
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("expected id and creation time assigned, got %#v", created)
	}
}

func TestCreateTrimsTitle(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"  X  "}`)
	if created.Title != "X" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	service := newTestService(t)

	for _, payload := range []string{`{}`, `{"title":"   "}`, `{"title":null}`, `{"title":42}`} {
		_, err := service.Create(context.Background(), "ann", decodeCreate(t, payload))
		validationErr, ok := apperr.AsValidation(err)
		if !ok {
			t.Fatalf("payload %s: expected validation error, got %v", payload, err)
		}
		if validationErr.Field != "title" {
			t.Fatalf("payload %s: expected title field, got %q", payload, validationErr.Field)
		}
	}
}

func TestCreateUnknownPriorityFallsBackToLow(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"t","priority":"bogus"}`)
	if created.Priority != PriorityLow {
		t.Fatalf("expected silent fallback to low, got %q", created.Priority)
	}
}

func TestCreateKnownPriorityIsKept(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"t","priority":"HIGH"}`)
	if created.Priority != PriorityHigh {
		t.Fatalf("expected high priority, got %q", created.Priority)
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"t","description":"d","dueDate":"next week","priority":"medium"}`)
	fetched, err := service.Get(context.Background(), "ann", created.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if fetched.ID != created.ID || fetched.Title != created.Title ||
		fetched.Description != created.Description || fetched.Priority != created.Priority ||
		!fetched.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("round trip mismatch: created %#v fetched %#v", created, fetched)
	}
	if fetched.DueDate == nil || *fetched.DueDate != "next week" {
		t.Fatalf("unexpected due date %#v", fetched.DueDate)
	}
}

func TestUpdateWithEmptyPayloadLeavesRecordUnchanged(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"t","description":"d","priority":"medium"}`)
	updated, err := service.Update(context.Background(), "ann", created.ID, decodeUpdate(t, `{}`))
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if updated.Title != created.Title || updated.Description != created.Description ||
		updated.Priority != created.Priority || updated.IsCompleted != created.IsCompleted {
		t.Fatalf("expected record unchanged, got %#v", updated)
	}
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"t","description":"d","priority":"medium"}`)
	updated, err := service.Update(context.Background(), "ann", created.ID,
		decodeUpdate(t, `{"title":"  renamed  ","isCompleted":true}`))
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if updated.Title != "renamed" {
		t.Fatalf("expected trimmed new title, got %q", updated.Title)
	}
	if updated.Description != "d" || updated.Priority != PriorityMedium {
		t.Fatalf("expected untouched fields kept, got %#v", updated)
	}
	if !updated.IsCompleted {
		t.Fatal("expected completion flag set")
	}
}

func TestUpdateClearsDueDateOnExplicitNull(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"t","dueDate":"tomorrow"}`)
	updated, err := service.Update(context.Background(), "ann", created.ID, decodeUpdate(t, `{"dueDate":null}`))
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if updated.DueDate != nil {
		t.Fatalf("expected due date cleared, got %v", *updated.DueDate)
	}
}

func TestUpdateRejectsUnknownPriority(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"t"}`)
	_, err := service.Update(context.Background(), "ann", created.ID, decodeUpdate(t, `{"priority":"bogus"}`))
	validationErr, ok := apperr.AsValidation(err)
	if !ok || validationErr.Field != "priority" {
		t.Fatalf("expected priority validation error, got %v", err)
	}
}

func TestPatchAllowListedFields(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"t"}`)
	patched, err := service.Patch(context.Background(), "ann", created.ID,
		decodePatch(t, `{"isCompleted":true,"priority":"high","dueDate":"friday"}`))
	if err != nil {
		t.Fatalf("unexpected patch error: %v", err)
	}
	if !patched.IsCompleted || patched.Priority != PriorityHigh {
		t.Fatalf("unexpected patched record %#v", patched)
	}
	if patched.DueDate == nil || *patched.DueDate != "friday" {
		t.Fatalf("unexpected due date %#v", patched.DueDate)
	}
	if patched.Title != "t" {
		t.Fatalf("expected title untouched, got %q", patched.Title)
	}
}

func TestPatchIsAllOrNothing(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"t"}`)
	_, err := service.Patch(context.Background(), "ann", created.ID,
		decodePatch(t, `{"isCompleted":true,"priority":"bogus"}`))
	validationErr, ok := apperr.AsValidation(err)
	if !ok || validationErr.Field != "priority" {
		t.Fatalf("expected priority validation error, got %v", err)
	}

	stored, err := service.Get(context.Background(), "ann", created.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if stored.IsCompleted || stored.Priority != PriorityLow {
		t.Fatalf("expected record completely unchanged, got %#v", stored)
	}
}

func TestPatchRejectsEmptyBody(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"t"}`)
	_, err := service.Patch(context.Background(), "ann", created.ID, decodePatch(t, `{}`))
	validationErr, ok := apperr.AsValidation(err)
	if !ok || validationErr.Field != "isCompleted" {
		t.Fatalf("expected isCompleted validation error, got %v", err)
	}
}

func TestPatchRejectsNonBooleanCompletionFlag(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"t"}`)
	for _, payload := range []string{`{"isCompleted":"yes"}`, `{"isCompleted":1}`, `{"isCompleted":null}`} {
		_, err := service.Patch(context.Background(), "ann", created.ID, decodePatch(t, payload))
		validationErr, ok := apperr.AsValidation(err)
		if !ok || validationErr.Field != "isCompleted" {
			t.Fatalf("payload %s: expected isCompleted validation error, got %v", payload, err)
		}
	}
}

func TestOwnershipIsolation(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"private"}`)

	if _, err := service.Get(context.Background(), "bob", created.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for foreign get, got %v", err)
	}
	owned, err := service.List(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(owned) != 0 {
		t.Fatalf("expected foreign list to exclude the record, got %#v", owned)
	}
	if _, err := service.Update(context.Background(), "bob", created.ID, decodeUpdate(t, `{"title":"stolen"}`)); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for foreign update, got %v", err)
	}
	if err := service.Delete(context.Background(), "bob", created.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for foreign delete, got %v", err)
	}
}

func TestListOnFreshStoreReturnsEmptySequence(t *testing.T) {
	service := newTestService(t)

	owned, err := service.List(context.Background(), "ann")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(owned) != 0 {
		t.Fatalf("expected empty sequence, got %#v", owned)
	}
}

func TestDeleteTwiceYieldsNotFound(t *testing.T) {
	service := newTestService(t)

	created := mustCreate(t, service, "ann", `{"title":"t"}`)
	if err := service.Delete(context.Background(), "ann", created.ID); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if err := service.Delete(context.Background(), "ann", created.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
