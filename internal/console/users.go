package console

import (
	"context"

	"github.com/matheus3301/shlokadmin/internal/api"
	"github.com/matheus3301/shlokadmin/internal/bus"
	"github.com/matheus3301/shlokadmin/internal/crud"
	"github.com/matheus3301/shlokadmin/internal/listquery"
	"github.com/matheus3301/shlokadmin/internal/model"
	"go.uber.org/zap"
)

// UserService is the end-user account surface of the backend.
type UserService interface {
	ListUsers(ctx context.Context, p api.ListParams) (model.Page[model.User], error)
	GetUser(ctx context.Context, email string) (*model.User, error)
	DeleteUser(ctx context.Context, email string) error
}

// Users is the accounts page.
type Users struct {
	List   *listquery.Controller[model.User]
	svc    UserService
	exec   *crud.Executor
	logger *zap.Logger
}

// NewUsers creates the page.
func NewUsers(svc UserService, pageSize int, b *bus.Bus, logger *zap.Logger) *Users {
	if logger == nil {
		logger = zap.NewNop()
	}
	list := listquery.New("users", pageSize, func(ctx context.Context, q listquery.Query) (model.Page[model.User], error) {
		return svc.ListUsers(ctx, api.ListParams{Page: q.Page, Limit: q.PageSize, Search: q.Search})
	}, b, logger)
	return &Users{
		List:   list,
		svc:    svc,
		exec:   crud.NewExecutor("users", list, b, logger),
		logger: logger,
	}
}

// Details reads one account. It does not touch the list.
func (u *Users) Details(ctx context.Context, email string) (UserDetails, error) {
	user, err := u.svc.GetUser(ctx, email)
	if err != nil {
		u.logger.Warn("fetch user details", zap.String("email", email), zap.Error(err))
		return UserDetails{}, &Failure{Message: api.Message(err, "Failed to fetch user details"), Err: err}
	}
	return DescribeUser(*user), nil
}

// Delete removes the account with email.
func (u *Users) Delete(ctx context.Context, email string) crud.Result {
	return u.exec.Execute(ctx, crud.Command{
		Verb: crud.Delete,
		Noun: "user",
		Run:  func(ctx context.Context) error { return u.svc.DeleteUser(ctx, email) },
	})
}

// DeletePrompt is the confirmation question for Delete.
func (u *Users) DeletePrompt(email string) string { return "Delete user " + email + "?" }
