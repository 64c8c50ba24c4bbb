package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"sort"

	"github.com/google/subcommands"

	"grana/internal/core"
)

// prefCmd holds the flags for the 'pref' subcommand.
type prefCmd struct{}

func (*prefCmd) Name() string     { return "pref" }
func (*prefCmd) Synopsis() string { return "get or set user profile preferences" }
func (*prefCmd) Usage() string {
	return `grana pref set <key> <value>
grana pref get [<key>]

  Stores preferences in the user's profile. Values that parse as JSON
  keep their type, everything else is stored as a string. 'get' without
  a key prints the whole profile.
`
}

func (c *prefCmd) SetFlags(f *flag.FlagSet) {}

func (c *prefCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := args[0].(*app)
	user := a.user()

	switch f.Arg(0) {
	case "set":
		if f.NArg() != 3 {
			fail(fmt.Errorf("usage: pref set <key> <value>"))
			return subcommands.ExitUsageError
		}
		key, raw := f.Arg(1), f.Arg(2)

		var value any = raw
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			value = parsed
		}

		if err := a.prefs.Set(ctx, user, key, value); err != nil {
			fail(err)
			if core.IsValidation(err) {
				return subcommands.ExitUsageError
			}
			return subcommands.ExitFailure
		}
		fmt.Printf("Set %s for %s\n", key, user)
		return subcommands.ExitSuccess

	case "get":
		if f.NArg() == 2 {
			value, ok, err := a.prefs.Get(ctx, user, f.Arg(1))
			if err != nil {
				fail(err)
				return subcommands.ExitFailure
			}
			if !ok {
				fmt.Printf("%s is not set\n", f.Arg(1))
				return subcommands.ExitSuccess
			}
			fmt.Printf("%s = %v\n", f.Arg(1), value)
			return subcommands.ExitSuccess
		}

		profile, err := a.prefs.Profile(ctx, user)
		if err != nil {
			fail(err)
			return subcommands.ExitFailure
		}
		if len(profile) == 0 {
			fmt.Printf("No profile stored for %s\n", user)
			return subcommands.ExitSuccess
		}
		keys := make([]string, 0, len(profile))
		for key := range profile {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("%s = %v\n", key, profile[key])
		}
		return subcommands.ExitSuccess

	default:
		fail(fmt.Errorf("usage: pref set|get"))
		return subcommands.ExitUsageError
	}
}
