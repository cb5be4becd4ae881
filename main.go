package main

import (
	"context"
	"os"

	"camparam/internal/camera"
	"camparam/internal/cli"
)

func main() {
	// コンテキストを作成
	ctx := context.Background()

	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr, camera.NewDiscoveryFactory())
	os.Exit(code)
}
