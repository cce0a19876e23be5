package enrich

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/contact-categorizer/internal/model"
)

// --- Member Source Mock ---

type mockMembers struct {
	mock.Mock
}

func (m *mockMembers) FetchAllMemberIDs(ctx context.Context, listID string) []string {
	args := m.Called(ctx, listID)
	return args.Get(0).([]string)
}

// --- Repository Mock ---

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Get(ctx context.Context, contactID string, fields []string) (map[string]string, bool) {
	args := m.Called(ctx, contactID, fields)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(map[string]string), args.Bool(1)
}

func (m *mockRepo) Update(ctx context.Context, contactID, field, value string) bool {
	args := m.Called(ctx, contactID, field, value)
	return args.Bool(0)
}

// --- Searcher Mock ---

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) SearchContext(ctx context.Context, query string) (string, bool) {
	args := m.Called(ctx, query)
	return args.String(0), args.Bool(1)
}

// --- Classifier Mock ---

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) Classify(ctx context.Context, subject, webContext string, categories []string) string {
	args := m.Called(ctx, subject, webContext, categories)
	return args.String(0)
}

// --- Ledger Mock ---

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) CreateRun(ctx context.Context, listID string, testMode bool) (*model.Run, error) {
	args := m.Called(ctx, listID, testMode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockLedger) RecordOutcome(ctx context.Context, runID string, result model.ContactResult) error {
	args := m.Called(ctx, runID, result)
	return args.Error(0)
}

func (m *mockLedger) CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary model.Summary) error {
	args := m.Called(ctx, runID, status, summary)
	return args.Error(0)
}
