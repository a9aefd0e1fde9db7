package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/client"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/pt"
)

type statement struct {
	sql  string
	vars []any
}

// dryRunDB builds statements without a server and records each one.
func dryRunDB(t *testing.T) (*gorm.DB, *[]statement) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 user=odyssey dbname=odyssey sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	var stmts []statement
	record := func(tx *gorm.DB) {
		stmts = append(stmts, statement{sql: tx.Statement.SQL.String(), vars: tx.Statement.Vars})
	}
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:record", record))
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:record", record))
	require.NoError(t, db.Callback().Row().After("gorm:row").Register("test:record", record))
	return db, &stmts
}

func last(t *testing.T, stmts *[]statement) statement {
	t.Helper()
	require.NotEmpty(t, *stmts)
	return (*stmts)[len(*stmts)-1]
}

func TestDocumentUpsertConflictsOnClientAndKind(t *testing.T) {
	db, stmts := dryRunDB(t)
	repo := NewDocumentRepository(db)

	doc := &document.SignedDocument{
		ClientID:  uuid.New(),
		Kind:      document.KindConsent,
		SignDate:  time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
		Signature: "data:image/png;base64,AAAA",
		Revision:  "20200317",
		Fields:    map[string]any{"infectious_disease": true},
	}
	require.NoError(t, repo.Upsert(context.Background(), doc))
	assert.NotEqual(t, uuid.Nil, doc.ID)

	st := last(t, stmts)
	assert.Contains(t, st.sql, `INSERT INTO "intake"."signed_documents"`)
	assert.Regexp(t, regexp.MustCompile(`ON CONFLICT \("client_id",\s*"kind"\)\s*DO UPDATE SET`), st.sql)
	for _, col := range []string{"sign_date", "signature", "revision", "fields", "updated_at"} {
		assert.Contains(t, st.sql, `"`+col+`"="excluded"."`+col+`"`)
	}
	assert.NotContains(t, st.sql, `"created_at"="excluded"`)
	assert.NotContains(t, st.sql, `"id"="excluded"`)
	assert.Contains(t, st.vars, doc.ClientID)
}

func TestDocumentQueries(t *testing.T) {
	db, stmts := dryRunDB(t)
	repo := NewDocumentRepository(db)
	id := uuid.New()

	_, _ = repo.Get(context.Background(), id, document.KindRelease)
	st := last(t, stmts)
	assert.Contains(t, st.sql, `FROM "intake"."signed_documents"`)
	assert.Contains(t, st.sql, "client_id = $1 AND kind = $2")
	assert.Equal(t, id, st.vars[0])
	assert.Equal(t, document.KindRelease, st.vars[1])

	_, err := repo.ListByClient(context.Background(), id)
	require.NoError(t, err)
	st = last(t, stmts)
	assert.Contains(t, st.sql, "client_id = $1")
	assert.Contains(t, st.sql, "ORDER BY kind")
}

func TestPTSaveKeepsCreatedAt(t *testing.T) {
	db, stmts := dryRunDB(t)
	repo := NewPTRepository(db)

	stale := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &pt.History{
		ClientID:  uuid.New(),
		CreatedAt: stale,
		UpdatedAt: stale,
		PainAreas: "[]",
		BestPain:  func() *int { v := 2; return &v }(),
	}
	require.NoError(t, repo.Save(context.Background(), h))
	assert.True(t, h.UpdatedAt.After(stale))
	assert.Equal(t, stale, h.CreatedAt)

	st := last(t, stmts)
	assert.Contains(t, st.sql, `INSERT INTO "intake"."pt_histories"`)
	assert.Regexp(t, regexp.MustCompile(`ON CONFLICT \("client_id"\)\s*DO UPDATE SET`), st.sql)
	for _, col := range historyUpdateColumns {
		assert.Contains(t, st.sql, `"`+col+`"="excluded"."`+col+`"`)
	}
	assert.NotContains(t, st.sql, `"created_at"="excluded"`)
	assert.NotContains(t, st.sql, `"client_id"="excluded"`)
}

func TestClientRepositoryStatements(t *testing.T) {
	db, stmts := dryRunDB(t)
	repo := NewClientRepository(db)

	c := &client.Client{FirstName: "Ada", LastName: "Lovelace", DateOfBirth: time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.NotEqual(t, uuid.Nil, c.ID)
	st := last(t, stmts)
	assert.Contains(t, st.sql, `INSERT INTO "intake"."clients"`)
	assert.Contains(t, st.vars, c.ID)

	_, _ = repo.Exists(context.Background(), c.ID)
	st = last(t, stmts)
	assert.Contains(t, st.sql, "count(*)")
	assert.Contains(t, st.sql, "id = $1")
}

func TestAuditRepositoryInsert(t *testing.T) {
	db, stmts := dryRunDB(t)
	repo := NewAuditRepository(db)

	require.NoError(t, repo.Create(context.Background(), &domain.AuditLog{
		Action:       domain.ActionSign,
		ResourceType: "document",
		Changes:      "{}",
	}))
	st := last(t, stmts)
	assert.Contains(t, st.sql, `INSERT INTO "audit"."logs"`)
	assert.Contains(t, st.vars, domain.ActionSign)
}
