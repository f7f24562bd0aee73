package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/conlangforge/conlangforge/internal/common"
	"github.com/conlangforge/conlangforge/internal/section"
	"github.com/conlangforge/conlangforge/internal/server/models"
	"github.com/stretchr/testify/require"
)

func seedWord(m *fakeManager, ownerID string) *models.Word {
	c := &models.Conlang{OwnerID: ownerID, Name: "Tengwar", Public: false}
	m.conlangs.byID["c1"] = c
	c.ID = "c1"
	w := &models.Word{ID: "w1", ConlangID: "c1", Text: "teng"}
	m.words.byID["w1"] = w
	return w
}

func TestSectionInsert_AppendsAndRoundTrips(t *testing.T) {
	m := newFakeManager()
	db, _ := newTxDB(t)
	seedWord(m, "u1")
	svc := NewSectionService(db, m)

	props := json.RawMessage(`{"lexicalCategoryId":"5","definitionText":"book"}`)
	created, err := svc.Insert(context.Background(), "u1", "w1", section.TypeDefinition, props, 0)
	require.NoError(t, err)
	require.Equal(t, 1, created.Position)
	require.Equal(t, section.TypeDefinition, created.Type)

	list, err := m.sections.ListByWord(context.Background(), "w1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	decoded, err := section.Decode(list[0].Type, list[0].Properties)
	require.NoError(t, err)
	require.Equal(t, "book", decoded.(section.Definition).DefinitionText)

	// Second insert appends after the first.
	second, err := svc.Insert(context.Background(), "u1", "w1", section.TypeEtymology, json.RawMessage(`{}`), 0)
	require.NoError(t, err)
	require.Equal(t, 2, second.Position)
}

func TestSectionInsert_InvalidPayloadCreatesNoRow(t *testing.T) {
	m := newFakeManager()
	db, _ := newTxDB(t)
	seedWord(m, "u1")
	svc := NewSectionService(db, m)

	_, err := svc.Insert(context.Background(), "u1", "w1", section.TypeDefinition, json.RawMessage(`{"definitionText":"no category"}`), 0)
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "properties.lexicalCategoryId")

	list, _ := m.sections.ListByWord(context.Background(), "w1")
	require.Empty(t, list)
}

func TestSectionInsert_MissingWord(t *testing.T) {
	m := newFakeManager()
	db, _ := newTxDB(t)
	svc := NewSectionService(db, m)

	_, err := svc.Insert(context.Background(), "u1", "missing", section.TypeEtymology, json.RawMessage(`{}`), 0)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSectionInsert_NonOwnerRejectedBeforeValidation(t *testing.T) {
	m := newFakeManager()
	db, _ := newTxDB(t)
	seedWord(m, "u1")
	svc := NewSectionService(db, m)

	// The payload is invalid too, but the non-owner must see only the
	// ownership failure.
	_, err := svc.Insert(context.Background(), "intruder", "w1", section.TypeDefinition, json.RawMessage(`{}`), 0)
	require.ErrorIs(t, err, common.ErrorForbidden)
}

func TestSectionUpdate_RevalidatesAgainstStoredType(t *testing.T) {
	m := newFakeManager()
	db, _ := newTxDB(t)
	seedWord(m, "u1")
	svc := NewSectionService(db, m)

	created, err := svc.Insert(context.Background(), "u1", "w1", section.TypePronunciation, json.RawMessage(`{"ipa":"tɛŋ"}`), 0)
	require.NoError(t, err)

	// A document shaped for another type fails the stored type's schema.
	_, err = svc.UpdateProperties(context.Background(), "u1", created.ID, "", json.RawMessage(`{"etymologyText":"old"}`))
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)

	// Declaring a different type is rejected before the payload is looked at.
	_, err = svc.UpdateProperties(context.Background(), "u1", created.ID, section.TypeEtymology, json.RawMessage(`{"etymologyText":"old"}`))
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "sectionType")

	// A valid document of the stored type replaces wholesale.
	updated, err := svc.UpdateProperties(context.Background(), "u1", created.ID, section.TypePronunciation, json.RawMessage(`{"pronunciationText":"teng"}`))
	require.NoError(t, err)
	decoded, err := section.Decode(updated.Type, updated.Properties)
	require.NoError(t, err)
	p := decoded.(section.Pronunciation)
	require.Equal(t, "teng", p.PronunciationText)
	require.Empty(t, p.IPA)
}

func TestSectionDelete_Idempotent(t *testing.T) {
	m := newFakeManager()
	db, _ := newTxDB(t)
	seedWord(m, "u1")
	svc := NewSectionService(db, m)

	created, err := svc.Insert(context.Background(), "u1", "w1", section.TypeEtymology, json.RawMessage(`{}`), 0)
	require.NoError(t, err)

	other, err := svc.Insert(context.Background(), "u1", "w1", section.TypeCustomText, json.RawMessage(`{"title":"t","contentText":"c"}`), 0)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "u1", created.ID))
	// Second delete of the same id behaves identically.
	require.NoError(t, svc.Delete(context.Background(), "u1", created.ID))

	// The unrelated section survives.
	list, _ := m.sections.ListByWord(context.Background(), "w1")
	require.Len(t, list, 1)
	require.Equal(t, other.ID, list[0].ID)
}

func TestSectionReorder_HappyPath(t *testing.T) {
	m := newFakeManager()
	db, mock := newTxDB(t)
	seedWord(m, "u1")
	svc := NewSectionService(db, m)

	a, _ := svc.Insert(context.Background(), "u1", "w1", section.TypeEtymology, json.RawMessage(`{}`), 0)
	b, _ := svc.Insert(context.Background(), "u1", "w1", section.TypeEtymology, json.RawMessage(`{}`), 0)
	c, _ := svc.Insert(context.Background(), "u1", "w1", section.TypeEtymology, json.RawMessage(`{}`), 0)

	mock.ExpectBegin()
	mock.ExpectCommit()

	got, err := svc.Reorder(context.Background(), "u1", []PositionUpdate{
		{ID: c.ID, Position: 1},
		{ID: a.ID, Position: 2},
		{ID: b.ID, Position: 3},
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []string{c.ID, a.ID, b.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionReorder_FailingRowAbortsBatch(t *testing.T) {
	m := newFakeManager()
	db, mock := newTxDB(t)
	seedWord(m, "u1")
	svc := NewSectionService(db, m)

	a, _ := svc.Insert(context.Background(), "u1", "w1", section.TypeEtymology, json.RawMessage(`{}`), 0)
	b, _ := svc.Insert(context.Background(), "u1", "w1", section.TypeEtymology, json.RawMessage(`{}`), 0)

	writeErr := errors.New("db is down")
	m.sections.failPosition = map[string]error{b.ID: writeErr}

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Reorder(context.Background(), "u1", []PositionUpdate{{ID: b.ID, Position: 1}, {ID: a.ID, Position: 2}})
	require.ErrorIs(t, err, writeErr)
	require.NoError(t, mock.ExpectationsWereMet())

	// The stored ordering is untouched: the batch rolled back before any
	// later update ran.
	require.Equal(t, 1, m.sections.byID[a.ID].Position)
	require.Equal(t, 2, m.sections.byID[b.ID].Position)
}

func TestSectionReorder_RejectsCrossWordBatch(t *testing.T) {
	m := newFakeManager()
	db, _ := newTxDB(t)
	seedWord(m, "u1")
	m.words.byID["w2"] = &models.Word{ID: "w2", ConlangID: "c1", Text: "lor"}
	svc := NewSectionService(db, m)

	a, _ := svc.Insert(context.Background(), "u1", "w1", section.TypeEtymology, json.RawMessage(`{}`), 0)
	b, _ := svc.Insert(context.Background(), "u1", "w2", section.TypeEtymology, json.RawMessage(`{}`), 0)

	_, err := svc.Reorder(context.Background(), "u1", []PositionUpdate{{ID: a.ID, Position: 1}, {ID: b.ID, Position: 2}})
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "updates")
}
