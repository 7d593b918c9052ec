package main

import "github.com/maxence-charriere/go-app/v10/pkg/app"

func main() {
	app.Route("/", func() app.Composer { return &boardView{} })
	app.RouteWithRegexp(`^/b/.+$`, func() app.Composer { return &boardView{} })
	app.RunWhenOnBrowser()
}
