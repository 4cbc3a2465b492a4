package session

import "github.com/mmeshcher/storefront/internal/model"

// Status описывает состояние аутентификации.
type Status int

const (
	// StatusLoading: начальная проверка сохранённого токена ещё не завершена.
	StatusLoading Status = iota
	// StatusAuthenticated: пользователь известен.
	StatusAuthenticated
	// StatusUnauthenticated: сессии нет.
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "loading"
	}
}

// State описывает снимок хранилища сессии.
type State struct {
	Status Status
	User   *model.User
}

// IsAuthenticated сообщает, выполнен ли вход.
func (s State) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}

// IsLoading сообщает, что состояние ещё не определено.
func (s State) IsLoading() bool {
	return s.Status == StatusLoading
}

type action interface {
	isAction()
}

type setUser struct{ user model.User }

type clearUser struct{}

type updateUser struct{ patch model.UserPatch }

func (setUser) isAction()    {}
func (clearUser) isAction()  {}
func (updateUser) isAction() {}

// reduce вычисляет следующее состояние сессии. Других переходов нет.
func reduce(s State, a action) State {
	switch a := a.(type) {
	case setUser:
		u := a.user
		return State{Status: StatusAuthenticated, User: &u}
	case clearUser:
		return State{Status: StatusUnauthenticated}
	case updateUser:
		if s.User == nil {
			return s
		}
		u := a.patch.Apply(*s.User)
		return State{Status: s.Status, User: &u}
	default:
		return s
	}
}
