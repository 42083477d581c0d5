package applets

import (
	"fmt"
	"os"
	"os/user"
	"strings"
)

func echoMain(ctx *Context, args []string) int {
	fmt.Fprintln(ctx.Stdout, strings.Join(args, " "))
	return 0
}

func pwdMain(ctx *Context, args []string) int {
	cwd, err := os.Getwd()
	if err != nil {
		ctx.Errorf("pwd: %s", err)
		return 1
	}
	fmt.Fprintln(ctx.Stdout, cwd)
	return 0
}

func whoamiMain(ctx *Context, args []string) int {
	u, err := user.Current()
	if err != nil {
		ctx.Errorf("whoami: %s", err)
		return 1
	}
	fmt.Fprintln(ctx.Stdout, u.Username)
	return 0
}
