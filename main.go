package main

import (
	"github.com/shobhitxp/QAAItestgenerator/internal/bootstrap"
)

func main() {
	bootstrap.NewApp().Run()
}
