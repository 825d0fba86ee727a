package cli

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestCommandTree(t *testing.T) {
	c := qt.New(t)
	root := NewRootCommand()

	for _, path := range [][]string{
		{"serve"},
		{"migrate"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"user", "create"},
	} {
		cmd, _, err := root.Find(path)
		c.Assert(err, qt.IsNil, qt.Commentf("path %v", path))
		c.Assert(cmd.Name(), qt.Equals, path[len(path)-1])
	}

	c.Assert(root.PersistentFlags().Lookup("config"), qt.IsNotNil)

	create, _, err := root.Find([]string{"user", "create"})
	c.Assert(err, qt.IsNil)
	c.Assert(create.Flags().Lookup("username"), qt.IsNotNil)
	c.Assert(create.Flags().Lookup("password"), qt.IsNotNil)

	serve, _, err := root.Find([]string{"serve"})
	c.Assert(err, qt.IsNil)
	c.Assert(serve.Flags().Lookup("addr"), qt.IsNotNil)
}

func TestUserCreateRequiresFlags(t *testing.T) {
	c := qt.New(t)
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"user", "create", "--username", "ana"})

	err := root.Execute()
	c.Assert(err, qt.ErrorMatches, "--username and --password are required")
}
