package app

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alfieprojectsdev/homebase/internal/domain/bill"
	"github.com/alfieprojectsdev/homebase/internal/domain/chore"
	"github.com/alfieprojectsdev/homebase/internal/domain/heuristics"
	"github.com/alfieprojectsdev/homebase/internal/domain/notify"
	"github.com/alfieprojectsdev/homebase/internal/domain/user"
	"github.com/alfieprojectsdev/homebase/internal/infra/database"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// fakeBillRepo is an in-memory bill.Repository for service tests.
type fakeBillRepo struct {
	bills []*bill.Bill
}

func (r *fakeBillRepo) Create(_ context.Context, b *bill.Bill) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.bills = append(r.bills, b)
	return nil
}

func (r *fakeBillRepo) GetByID(_ context.Context, orgID, id uuid.UUID) (*bill.Bill, error) {
	for _, b := range r.bills {
		if b.ID == id && b.OrgID == orgID {
			return b, nil
		}
	}
	return nil, database.ErrBillNotFound
}

func (r *fakeBillRepo) Update(_ context.Context, b *bill.Bill) error {
	for i, existing := range r.bills {
		if existing.ID == b.ID {
			b.UpdatedAt = time.Now()
			r.bills[i] = b
			return nil
		}
	}
	return database.ErrBillNotFound
}

func (r *fakeBillRepo) Delete(_ context.Context, orgID, id uuid.UUID) error {
	for i, b := range r.bills {
		if b.ID == id && b.OrgID == orgID {
			r.bills = append(r.bills[:i], r.bills[i+1:]...)
			return nil
		}
	}
	return database.ErrBillNotFound
}

func (r *fakeBillRepo) ListByOrg(_ context.Context, orgID uuid.UUID) ([]*bill.Bill, error) {
	var out []*bill.Bill
	for _, b := range r.bills {
		if b.OrgID == orgID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBillRepo) ListByName(_ context.Context, orgID uuid.UUID, name string, limit int) ([]*bill.Bill, error) {
	var out []*bill.Bill
	for _, b := range r.bills {
		if b.OrgID == orgID && b.Name == name {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.After(out[j].DueDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBillRepo) ListPaidByOrg(_ context.Context, orgID uuid.UUID) ([]*bill.Bill, error) {
	var out []*bill.Bill
	for _, b := range r.bills {
		if b.OrgID == orgID && b.Status == bill.StatusPaid {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBillRepo) ListPending(_ context.Context) ([]*bill.Bill, error) {
	var out []*bill.Bill
	for _, b := range r.bills {
		if b.Status == bill.StatusPending || b.Status == bill.StatusOverdue {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBillRepo) MarkOverdue(_ context.Context, asOf time.Time) (int64, error) {
	var n int64
	for _, b := range r.bills {
		if b.IsOverdue(asOf) {
			b.Status = bill.StatusOverdue
			n++
		}
	}
	return n, nil
}

func (r *fakeBillRepo) SaveUrgency(_ context.Context, b *bill.Bill) error {
	for i, existing := range r.bills {
		if existing.ID == b.ID {
			r.bills[i] = b
			return nil
		}
	}
	return database.ErrBillNotFound
}

func (r *fakeBillRepo) CoTrackingRate(_ context.Context, baseCategory, alsoCategory string) (float64, error) {
	base := make(map[uuid.UUID]bool)
	both := make(map[uuid.UUID]bool)
	for _, b := range r.bills {
		if b.Category.Valid && b.Category.String == baseCategory {
			base[b.OrgID] = true
		}
	}
	for _, b := range r.bills {
		if b.Category.Valid && b.Category.String == alsoCategory && base[b.OrgID] {
			both[b.OrgID] = true
		}
	}
	if len(base) == 0 {
		return 0, nil
	}
	return float64(len(both)) / float64(len(base)), nil
}

// fakeUserRepo is an in-memory user.Repository.
type fakeUserRepo struct {
	users []*user.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users = append(r.users, u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, database.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error { return nil }

func (r *fakeUserRepo) ListByOrg(_ context.Context, orgID uuid.UUID) ([]*user.User, error) {
	var out []*user.User
	for _, u := range r.users {
		if u.OrgID == orgID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListAll(_ context.Context) ([]*user.User, error) {
	return r.users, nil
}

func (r *fakeUserRepo) TouchLastAppOpen(_ context.Context, id uuid.UUID) error { return nil }

// fakeChoreRepo is an in-memory chore.Repository.
type fakeChoreRepo struct {
	chores  []*chore.Chore
	streaks []*chore.Streak
}

func (r *fakeChoreRepo) Create(_ context.Context, c *chore.Chore) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.chores = append(r.chores, c)
	return nil
}

func (r *fakeChoreRepo) GetByID(_ context.Context, orgID, id uuid.UUID) (*chore.Chore, error) {
	for _, c := range r.chores {
		if c.ID == id && c.OrgID == orgID {
			return c, nil
		}
	}
	return nil, database.ErrChoreNotFound
}

func (r *fakeChoreRepo) Update(_ context.Context, c *chore.Chore) error { return nil }

func (r *fakeChoreRepo) ListByOrg(_ context.Context, orgID uuid.UUID) ([]*chore.Chore, error) {
	var out []*chore.Chore
	for _, c := range r.chores {
		if c.OrgID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeChoreRepo) GetStreak(_ context.Context, userID, choreID uuid.UUID) (*chore.Streak, error) {
	for _, s := range r.streaks {
		if s.UserID == userID && s.ChoreID == choreID {
			return s, nil
		}
	}
	return nil, database.ErrStreakNotFound
}

func (r *fakeChoreRepo) SaveStreak(_ context.Context, s *chore.Streak) error {
	for i, existing := range r.streaks {
		if existing.UserID == s.UserID && existing.ChoreID == s.ChoreID {
			r.streaks[i] = s
			return nil
		}
	}
	r.streaks = append(r.streaks, s)
	return nil
}

func (r *fakeChoreRepo) ListStreaksByOrg(_ context.Context, orgID uuid.UUID) ([]*chore.Streak, error) {
	var out []*chore.Streak
	for _, s := range r.streaks {
		if s.OrgID == orgID {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeLogRepo is an in-memory notify.LogRepository.
type fakeLogRepo struct {
	logs []*notify.Log
}

func (r *fakeLogRepo) Create(_ context.Context, l *notify.Log) error {
	r.logs = append(r.logs, l)
	return nil
}

func (r *fakeLogRepo) LastForBill(_ context.Context, userID, billID uuid.UUID, level heuristics.UrgencyLevel) (*notify.Log, error) {
	for i := len(r.logs) - 1; i >= 0; i-- {
		l := r.logs[i]
		if l.UserID == userID && l.BillID == billID && l.Level == level {
			return l, nil
		}
	}
	return nil, database.ErrNotificationLogNotFound
}

// fakeNotifier records every alert it is asked to send.
type fakeNotifier struct {
	sent []string
}

func (n *fakeNotifier) SendAlert(_ context.Context, recipient *user.User, message string, level heuristics.UrgencyLevel) error {
	n.sent = append(n.sent, message)
	return nil
}
