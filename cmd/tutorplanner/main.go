package main

import (
	"TutorPlanner/internal/bootstrap"
	pkg "TutorPlanner/pkg/routes"

	"go.uber.org/fx"
)

func main() {
	bootstrap.Loadenv()

	app := fx.New(
		pkg.EchoModules,
	)

	app.Run()
}
