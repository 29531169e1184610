package viewmodel

import "fmt"

const (
	RouteToolList   = "/tool/list"
	RouteClientList = "/client/list"
	RouteLoanList   = "/loan/list"
	RouteKardex     = "/kardex"
	RouteReports    = "/reports"
)

// LoanReturnRoute is the return form of one loan
func LoanReturnRoute(id int64) string {
	return fmt.Sprintf("/loan/return/%d", id)
}

// Navigator moves the front end to another screen
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

func navigate(nav Navigator, route string) {
	if nav != nil {
		nav.Navigate(route)
	}
}
