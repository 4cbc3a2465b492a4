package cart

import "github.com/mmeshcher/storefront/internal/model"

// State описывает снимок хранилища корзины. Cart равен nil, когда корзины нет.
type State struct {
	Cart    *model.Cart
	Loading bool
}

type action interface {
	isAction()
}

type setLoading struct{ loading bool }

type setCart struct{ cart model.Cart }

type clearCart struct{}

func (setLoading) isAction() {}
func (setCart) isAction()    {}
func (clearCart) isAction()  {}

// reduce вычисляет следующее состояние корзины.
// setCart всегда заменяет снимок целиком.
func reduce(s State, a action) State {
	switch a := a.(type) {
	case setLoading:
		return State{Cart: s.Cart, Loading: a.loading}
	case setCart:
		c := a.cart
		return State{Cart: &c}
	case clearCart:
		return State{}
	default:
		return s
	}
}
