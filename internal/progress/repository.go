package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/dailyexpression/internal/date"
	"github.com/at-ishikawa/dailyexpression/internal/yamlfile"
)

// MemoryRepository keeps progress in a map. It is safe for concurrent use.
type MemoryRepository struct {
	mu         sync.RWMutex
	items      map[string]Progress
	challenges map[string]ChallengeRecord
}

func NewMemoryRepository(items ...Progress) *MemoryRepository {
	repository := &MemoryRepository{
		items:      make(map[string]Progress, len(items)),
		challenges: make(map[string]ChallengeRecord),
	}
	for _, item := range items {
		repository.items[item.ExpressionID] = item
	}
	return repository
}

func (r *MemoryRepository) FindAll(_ context.Context) ([]Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedProgress(r.items), nil
}

func (r *MemoryRepository) Find(_ context.Context, expressionID string) (*Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[expressionID]
	if !ok {
		return nil, nil
	}
	return cloneProgress(item), nil
}

func (r *MemoryRepository) Save(_ context.Context, progress Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[progress.ExpressionID] = *cloneProgress(progress)
	return nil
}

func (r *MemoryRepository) FindChallenge(_ context.Context, day date.Date) (*ChallengeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.challenges[day.String()]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (r *MemoryRepository) FindChallenges(_ context.Context) ([]ChallengeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedChallenges(r.challenges), nil
}

func (r *MemoryRepository) SaveChallenge(_ context.Context, record ChallengeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.challenges[record.Date.String()] = record
	return nil
}

type yamlDocument struct {
	Expressions []Progress        `yaml:"expressions"`
	Challenges  []ChallengeRecord `yaml:"challenges,omitempty"`
}

// YAMLRepository stores every entry in one YAML file and rewrites it on Save.
type YAMLRepository struct {
	path string

	mu         sync.RWMutex
	items      map[string]Progress
	challenges map[string]ChallengeRecord
}

func OpenYAMLRepository(path string) (*YAMLRepository, error) {
	doc, err := yamlfile.ReadOrZero[yamlDocument](path)
	if err != nil {
		return nil, fmt.Errorf("yamlfile.ReadOrZero(%s) > %w", path, err)
	}
	items := make(map[string]Progress, len(doc.Expressions))
	for _, item := range doc.Expressions {
		if item.ExpressionID == "" {
			return nil, fmt.Errorf("%s: entry without expression_id", path)
		}
		items[item.ExpressionID] = item
	}
	challenges := make(map[string]ChallengeRecord, len(doc.Challenges))
	for _, record := range doc.Challenges {
		challenges[record.Date.String()] = record
	}
	return &YAMLRepository{
		path:       path,
		items:      items,
		challenges: challenges,
	}, nil
}

func (r *YAMLRepository) FindAll(_ context.Context) ([]Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedProgress(r.items), nil
}

func (r *YAMLRepository) Find(_ context.Context, expressionID string) (*Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[expressionID]
	if !ok {
		return nil, nil
	}
	return cloneProgress(item), nil
}

func (r *YAMLRepository) Save(_ context.Context, progress Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, existed := r.items[progress.ExpressionID]
	r.items[progress.ExpressionID] = *cloneProgress(progress)
	if err := r.write(); err != nil {
		if existed {
			r.items[progress.ExpressionID] = previous
		} else {
			delete(r.items, progress.ExpressionID)
		}
		return err
	}
	return nil
}

func (r *YAMLRepository) FindChallenge(_ context.Context, day date.Date) (*ChallengeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.challenges[day.String()]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (r *YAMLRepository) FindChallenges(_ context.Context) ([]ChallengeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedChallenges(r.challenges), nil
}

func (r *YAMLRepository) SaveChallenge(_ context.Context, record ChallengeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, existed := r.challenges[record.Date.String()]
	r.challenges[record.Date.String()] = record
	if err := r.write(); err != nil {
		if existed {
			r.challenges[record.Date.String()] = previous
		} else {
			delete(r.challenges, record.Date.String())
		}
		return err
	}
	return nil
}

// write must be called with r.mu held
func (r *YAMLRepository) write() error {
	doc := yamlDocument{
		Expressions: sortedProgress(r.items),
		Challenges:  sortedChallenges(r.challenges),
	}
	if err := yamlfile.Write(r.path, doc); err != nil {
		return fmt.Errorf("yamlfile.Write(%s) > %w", r.path, err)
	}
	return nil
}

const (
	selectProgressColumns = "SELECT expression_id, is_learned, learned_date, review_count FROM expression_progress"

	insertProgress = `INSERT INTO expression_progress (expression_id, is_learned, learned_date, review_count)
		VALUES (?, ?, ?, ?)`

	mysqlProgressUpsert = ` ON DUPLICATE KEY UPDATE is_learned = VALUES(is_learned), learned_date = VALUES(learned_date),
		review_count = VALUES(review_count)`

	sqliteProgressUpsert = ` ON CONFLICT(expression_id) DO UPDATE SET is_learned = excluded.is_learned,
		learned_date = excluded.learned_date, review_count = excluded.review_count`

	selectChallengeColumns = "SELECT challenge_date, score, total FROM daily_challenges"

	insertChallenge = "INSERT INTO daily_challenges (challenge_date, score, total) VALUES (?, ?, ?)"

	mysqlChallengeUpsert = " ON DUPLICATE KEY UPDATE score = VALUES(score), total = VALUES(total)"

	sqliteChallengeUpsert = " ON CONFLICT(challenge_date) DO UPDATE SET score = excluded.score, total = excluded.total"
)

// DBRepository implements Repository on the expression_progress and
// daily_challenges tables.
type DBRepository struct {
	db              *sqlx.DB
	upsert          string
	challengeUpsert string
}

func NewDBRepository(db *sqlx.DB) (*DBRepository, error) {
	var suffix, challengeSuffix string
	switch db.DriverName() {
	case "mysql":
		suffix, challengeSuffix = mysqlProgressUpsert, mysqlChallengeUpsert
	case "sqlite":
		suffix, challengeSuffix = sqliteProgressUpsert, sqliteChallengeUpsert
	default:
		return nil, fmt.Errorf("unsupported database driver %q", db.DriverName())
	}
	return &DBRepository{
		db:              db,
		upsert:          insertProgress + suffix,
		challengeUpsert: insertChallenge + challengeSuffix,
	}, nil
}

func (r *DBRepository) FindAll(ctx context.Context) ([]Progress, error) {
	var items []Progress
	if err := r.db.SelectContext(ctx, &items, selectProgressColumns+" ORDER BY expression_id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(expression_progress) > %w", err)
	}
	return items, nil
}

// Find returns the progress of expressionID, or nil if not found.
func (r *DBRepository) Find(ctx context.Context, expressionID string) (*Progress, error) {
	var item Progress
	err := r.db.GetContext(ctx, &item, selectProgressColumns+" WHERE expression_id = ?", expressionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(expression_progress %s) > %w", expressionID, err)
	}
	return &item, nil
}

func (r *DBRepository) Save(ctx context.Context, progress Progress) error {
	if _, err := r.db.ExecContext(ctx, r.upsert,
		progress.ExpressionID, progress.IsLearned, progress.LearnedDate, progress.ReviewCount,
	); err != nil {
		return fmt.Errorf("db.ExecContext(upsert expression_progress %s) > %w", progress.ExpressionID, err)
	}
	return nil
}

func (r *DBRepository) FindChallenge(ctx context.Context, day date.Date) (*ChallengeRecord, error) {
	var record ChallengeRecord
	err := r.db.GetContext(ctx, &record, selectChallengeColumns+" WHERE challenge_date = ?", day)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(daily_challenges %s) > %w", day, err)
	}
	return &record, nil
}

func (r *DBRepository) FindChallenges(ctx context.Context) ([]ChallengeRecord, error) {
	var records []ChallengeRecord
	if err := r.db.SelectContext(ctx, &records, selectChallengeColumns+" ORDER BY challenge_date"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(daily_challenges) > %w", err)
	}
	return records, nil
}

func (r *DBRepository) SaveChallenge(ctx context.Context, record ChallengeRecord) error {
	if _, err := r.db.ExecContext(ctx, r.challengeUpsert, record.Date, record.Score, record.Total); err != nil {
		return fmt.Errorf("db.ExecContext(upsert daily_challenges %s) > %w", record.Date, err)
	}
	return nil
}

func sortedProgress(items map[string]Progress) []Progress {
	result := make([]Progress, 0, len(items))
	for _, item := range items {
		result = append(result, *cloneProgress(item))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ExpressionID < result[j].ExpressionID
	})
	return result
}

func sortedChallenges(records map[string]ChallengeRecord) []ChallengeRecord {
	result := make([]ChallengeRecord, 0, len(records))
	for _, record := range records {
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

func cloneProgress(item Progress) *Progress {
	clone := item
	if item.LearnedDate != nil {
		learnedDate := *item.LearnedDate
		clone.LearnedDate = &learnedDate
	}
	return &clone
}
