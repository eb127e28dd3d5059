package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID       map[uuid.UUID]*domain.User
	ByEmail    map[string]*domain.User
	ByUsername map[string]*domain.User
	CreateFn   func(user *domain.User) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:       make(map[uuid.UUID]*domain.User),
		ByEmail:    make(map[string]*domain.User),
		ByUsername: make(map[string]*domain.User),
	}
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(user)
	}
	if _, ok := m.ByEmail[user.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	if _, ok := m.ByUsername[user.Username]; ok {
		return nil, domain.ErrUsernameTaken
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.AddUser(user)
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByUsername retrieves a user by username
func (m *MockUserRepository) GetByUsername(username string) (*domain.User, error) {
	if user, ok := m.ByUsername[username]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// MarkEmailVerified records the user's email as verified
func (m *MockUserRepository) MarkEmailVerified(id uuid.UUID) error {
	user, ok := m.ByID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	now := time.Now()
	user.EmailVerifiedAt = &now
	return nil
}

// UpdatePasswordHash replaces the user's password hash
func (m *MockUserRepository) UpdatePasswordHash(id uuid.UUID, hash string) error {
	user, ok := m.ByID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.PasswordHash = hash
	return nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.ByID[user.ID] = user
	m.ByEmail[user.Email] = user
	m.ByUsername[user.Username] = user
}

// MockSessionRepository is a mock implementation of domain.SessionRepository
type MockSessionRepository struct {
	Sessions map[string]*domain.Session
}

// NewMockSessionRepository creates a new MockSessionRepository
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		Sessions: make(map[string]*domain.Session),
	}
}

// Create creates a new session
func (m *MockSessionRepository) Create(session *domain.Session) (*domain.Session, error) {
	session.CreatedAt = time.Now()
	m.Sessions[session.Token] = session
	return session, nil
}

// GetValid retrieves a session if it has not expired
func (m *MockSessionRepository) GetValid(token string, now time.Time) (*domain.Session, error) {
	session, ok := m.Sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !session.ExpiresAt.After(now) {
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

// Revoke deletes a session
func (m *MockSessionRepository) Revoke(token string) error {
	delete(m.Sessions, token)
	return nil
}

// RevokeAllForUser deletes all of a user's sessions
func (m *MockSessionRepository) RevokeAllForUser(userID uuid.UUID) error {
	for token, session := range m.Sessions {
		if session.UserID == userID {
			delete(m.Sessions, token)
		}
	}
	return nil
}

// MockAuthTokenRepository is a mock implementation of domain.AuthTokenRepository
type MockAuthTokenRepository struct {
	Tokens map[string]*domain.AuthToken
}

// NewMockAuthTokenRepository creates a new MockAuthTokenRepository
func NewMockAuthTokenRepository() *MockAuthTokenRepository {
	return &MockAuthTokenRepository{
		Tokens: make(map[string]*domain.AuthToken),
	}
}

// Create stores a new auth token
func (m *MockAuthTokenRepository) Create(token *domain.AuthToken) (*domain.AuthToken, error) {
	token.CreatedAt = time.Now()
	m.Tokens[token.Token] = token
	return token, nil
}

// Consume deletes and returns a non-expired token
func (m *MockAuthTokenRepository) Consume(token string, purpose domain.TokenPurpose, now time.Time) (*domain.AuthToken, error) {
	t, ok := m.Tokens[token]
	if !ok || t.Purpose != purpose {
		return nil, domain.ErrTokenNotFound
	}
	delete(m.Tokens, token)
	if !t.ExpiresAt.After(now) {
		return nil, domain.ErrTokenExpired
	}
	return t, nil
}

// DeleteAllForUser deletes all of a user's tokens for one purpose
func (m *MockAuthTokenRepository) DeleteAllForUser(userID uuid.UUID, purpose domain.TokenPurpose) error {
	for key, t := range m.Tokens {
		if t.UserID == userID && t.Purpose == purpose {
			delete(m.Tokens, key)
		}
	}
	return nil
}

// MockAccountRepository is a mock implementation of domain.AccountRepository
type MockAccountRepository struct {
	mu       sync.Mutex
	Accounts map[uuid.UUID]*domain.Account
	CreateFn func(account *domain.Account) (*domain.Account, error)
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[uuid.UUID]*domain.Account),
	}
}

// Create creates a new account, enforcing the (userID, name) uniqueness rule
func (m *MockAccountRepository) Create(account *domain.Account) (*domain.Account, error) {
	if m.CreateFn != nil {
		return m.CreateFn(account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Accounts {
		if existing.UserID == account.UserID && existing.Name == account.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	account.ID = uuid.New()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	m.Accounts[account.ID] = account
	return account, nil
}

// GetByID retrieves an account by ID scoped to a user
func (m *MockAccountRepository) GetByID(userID, id uuid.UUID) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account, ok := m.Accounts[id]; ok && account.UserID == userID {
		return account, nil
	}
	return nil, domain.ErrAccountNotFound
}

// GetByName retrieves an account by name scoped to a user
func (m *MockAccountRepository) GetByName(userID uuid.UUID, name string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.Accounts {
		if account.UserID == userID && account.Name == name {
			return account, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// GetAllByUser retrieves all accounts for a user
func (m *MockAccountRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var accounts []*domain.Account
	for _, account := range m.Accounts {
		if account.UserID == userID {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Name < accounts[j].Name
	})
	return accounts, nil
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	mu         sync.Mutex
	Categories map[uuid.UUID]*domain.Category
	CreateFn   func(category *domain.Category) (*domain.Category, error)
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.Category),
	}
}

// Create creates a new category, enforcing the (userID, type, name) uniqueness rule
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	if m.CreateFn != nil {
		return m.CreateFn(category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Categories {
		if existing.UserID == category.UserID && existing.Type == category.Type && existing.Name == category.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID scoped to a user
func (m *MockCategoryRepository) GetByID(userID, id uuid.UUID) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if category, ok := m.Categories[id]; ok && category.UserID == userID {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAllByUser retrieves all categories for a user
func (m *MockCategoryRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var categories []*domain.Category
	for _, category := range m.Categories {
		if category.UserID == userID {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	SumFn        func(userID uuid.UUID, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	transaction.ID = uuid.New()
	transaction.CreatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction by ID scoped to a user
func (m *MockTransactionRepository) GetByID(userID, id uuid.UUID) (*domain.Transaction, error) {
	if transaction, ok := m.Transactions[id]; ok && transaction.UserID == userID {
		return transaction, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetByUserAndWindow retrieves transactions in [start, end), newest first
func (m *MockTransactionRepository) GetByUserAndWindow(userID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID == userID && !t.OccurredAt.Before(start) && t.OccurredAt.Before(end) {
			transactions = append(transactions, t)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].OccurredAt.After(transactions[j].OccurredAt)
	})
	return transactions, nil
}

// SumByTypeAndWindow sums amounts of one type in [start, end)
func (m *MockTransactionRepository) SumByTypeAndWindow(userID uuid.UUID, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	if m.SumFn != nil {
		return m.SumFn(userID, txType, start, end)
	}
	sum := decimal.Zero
	for _, t := range m.Transactions {
		if t.UserID == userID && t.Type == txType && !t.OccurredAt.Before(start) && t.OccurredAt.Before(end) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

// SetReceiptKey attaches a receipt storage key to a transaction
func (m *MockTransactionRepository) SetReceiptKey(userID, id uuid.UUID, key string) error {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	transaction.ReceiptKey = &key
	return nil
}

// MockSettingRepository is a mock implementation of domain.SettingRepository
type MockSettingRepository struct {
	Settings map[uuid.UUID]map[string]*domain.Setting
}

// NewMockSettingRepository creates a new MockSettingRepository
func NewMockSettingRepository() *MockSettingRepository {
	return &MockSettingRepository{
		Settings: make(map[uuid.UUID]map[string]*domain.Setting),
	}
}

// Upsert writes the value for (userID, key)
func (m *MockSettingRepository) Upsert(userID uuid.UUID, key, value string) (*domain.Setting, error) {
	if m.Settings[userID] == nil {
		m.Settings[userID] = make(map[string]*domain.Setting)
	}
	setting, ok := m.Settings[userID][key]
	if !ok {
		setting = &domain.Setting{
			ID:        uuid.New(),
			UserID:    userID,
			Key:       key,
			CreatedAt: time.Now(),
		}
		m.Settings[userID][key] = setting
	}
	setting.Value = value
	setting.UpdatedAt = time.Now()
	return setting, nil
}

// Get retrieves a setting by key
func (m *MockSettingRepository) Get(userID uuid.UUID, key string) (*domain.Setting, error) {
	if setting, ok := m.Settings[userID][key]; ok {
		return setting, nil
	}
	return nil, domain.ErrSettingNotFound
}

// GetAllByUser retrieves all settings for a user
func (m *MockSettingRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Setting, error) {
	var settings []*domain.Setting
	for _, setting := range m.Settings[userID] {
		settings = append(settings, setting)
	}
	sort.Slice(settings, func(i, j int) bool {
		return settings[i].Key < settings[j].Key
	})
	return settings, nil
}

// MockPlanRepository is a mock implementation of domain.PlanRepository
type MockPlanRepository struct {
	Plans []*domain.Plan
}

// NewMockPlanRepository creates a new MockPlanRepository
func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{}
}

// Create creates a new plan
func (m *MockPlanRepository) Create(plan *domain.Plan) (*domain.Plan, error) {
	plan.ID = uuid.New()
	plan.CreatedAt = time.Now()
	m.Plans = append(m.Plans, plan)
	return plan, nil
}

// GetFirstByUser retrieves the user's earliest plan
func (m *MockPlanRepository) GetFirstByUser(userID uuid.UUID) (*domain.Plan, error) {
	for _, plan := range m.Plans {
		if plan.UserID == userID {
			return plan, nil
		}
	}
	return nil, domain.ErrPlanNotFound
}

// MockGoalRepository is a mock implementation of domain.GoalRepository
type MockGoalRepository struct {
	Goals []*domain.Goal
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{}
}

// Create creates a new goal
func (m *MockGoalRepository) Create(goal *domain.Goal) (*domain.Goal, error) {
	goal.ID = uuid.New()
	goal.CreatedAt = time.Now()
	m.Goals = append(m.Goals, goal)
	return goal, nil
}

// GetActive retrieves the earliest-created active goal
func (m *MockGoalRepository) GetActive(userID uuid.UUID) (*domain.Goal, error) {
	for _, goal := range m.Goals {
		if goal.UserID == userID && goal.IsActive {
			return goal, nil
		}
	}
	return nil, domain.ErrGoalNotFound
}

// GetAllByUser retrieves all goals for a user
func (m *MockGoalRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Goal, error) {
	var goals []*domain.Goal
	for _, goal := range m.Goals {
		if goal.UserID == userID {
			goals = append(goals, goal)
		}
	}
	return goals, nil
}

// MockHoldingRepository is a mock implementation of domain.HoldingRepository
type MockHoldingRepository struct {
	Holdings []*domain.Holding
}

// NewMockHoldingRepository creates a new MockHoldingRepository
func NewMockHoldingRepository() *MockHoldingRepository {
	return &MockHoldingRepository{}
}

// Create creates a new holding
func (m *MockHoldingRepository) Create(holding *domain.Holding) (*domain.Holding, error) {
	holding.ID = uuid.New()
	holding.CreatedAt = time.Now()
	m.Holdings = append(m.Holdings, holding)
	return holding, nil
}

// GetAllByUser retrieves all holdings for a user
func (m *MockHoldingRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Holding, error) {
	var holdings []*domain.Holding
	for _, holding := range m.Holdings {
		if holding.UserID == userID {
			holdings = append(holdings, holding)
		}
	}
	return holdings, nil
}

// SumByAssetClass sums the user's holdings in one asset class
func (m *MockHoldingRepository) SumByAssetClass(userID uuid.UUID, class domain.AssetClass) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, holding := range m.Holdings {
		if holding.UserID == userID && holding.AssetClass == class {
			sum = sum.Add(holding.Amount)
		}
	}
	return sum, nil
}

// MockLiabilityRepository is a mock implementation of domain.LiabilityRepository
type MockLiabilityRepository struct {
	Liabilities []*domain.Liability
}

// NewMockLiabilityRepository creates a new MockLiabilityRepository
func NewMockLiabilityRepository() *MockLiabilityRepository {
	return &MockLiabilityRepository{}
}

// Create creates a new liability
func (m *MockLiabilityRepository) Create(liability *domain.Liability) (*domain.Liability, error) {
	liability.ID = uuid.New()
	liability.CreatedAt = time.Now()
	m.Liabilities = append(m.Liabilities, liability)
	return liability, nil
}

// GetAllByUser retrieves all liabilities for a user
func (m *MockLiabilityRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Liability, error) {
	var liabilities []*domain.Liability
	for _, liability := range m.Liabilities {
		if liability.UserID == userID {
			liabilities = append(liabilities, liability)
		}
	}
	return liabilities, nil
}

// MockKpiSnapshotRepository is a mock implementation of domain.KpiSnapshotRepository
type MockKpiSnapshotRepository struct {
	Snapshots map[snapshotKey]*domain.KpiSnapshot
	UpsertFn  func(snapshot *domain.KpiSnapshot) (*domain.KpiSnapshot, error)
}

type snapshotKey struct {
	UserID uuid.UUID
	Year   int
	Month  int
}

// NewMockKpiSnapshotRepository creates a new MockKpiSnapshotRepository
func NewMockKpiSnapshotRepository() *MockKpiSnapshotRepository {
	return &MockKpiSnapshotRepository{
		Snapshots: make(map[snapshotKey]*domain.KpiSnapshot),
	}
}

// GetByPeriod retrieves the snapshot for (userID, year, month)
func (m *MockKpiSnapshotRepository) GetByPeriod(userID uuid.UUID, year, month int) (*domain.KpiSnapshot, error) {
	if snapshot, ok := m.Snapshots[snapshotKey{userID, year, month}]; ok {
		return snapshot, nil
	}
	return nil, domain.ErrSnapshotNotFound
}

// Upsert writes the snapshot for its period, replacing any existing row
func (m *MockKpiSnapshotRepository) Upsert(snapshot *domain.KpiSnapshot) (*domain.KpiSnapshot, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(snapshot)
	}
	key := snapshotKey{snapshot.UserID, snapshot.Year, snapshot.Month}
	now := time.Now()
	if existing, ok := m.Snapshots[key]; ok {
		snapshot.ID = existing.ID
		snapshot.CreatedAt = existing.CreatedAt
	} else {
		snapshot.ID = uuid.New()
		snapshot.CreatedAt = now
	}
	snapshot.UpdatedAt = now
	m.Snapshots[key] = snapshot
	return snapshot, nil
}

// MockMailer is a mock implementation of service.Mailer that records sent mail
type MockMailer struct {
	mu                 sync.Mutex
	VerificationEmails []SentMail
	ResetEmails        []SentMail
}

// SentMail records one outbound email
type SentMail struct {
	To    string
	Name  string
	Token string
}

// NewMockMailer creates a new MockMailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// SendVerificationEmail records a verification email
func (m *MockMailer) SendVerificationEmail(to, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VerificationEmails = append(m.VerificationEmails, SentMail{To: to, Name: name, Token: token})
	return nil
}

// SendPasswordResetEmail records a password reset email
func (m *MockMailer) SendPasswordResetEmail(to, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetEmails = append(m.ResetEmails, SentMail{To: to, Name: name, Token: token})
	return nil
}
