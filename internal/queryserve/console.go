// SPDX-License-Identifier: MPL-2.0

package queryserve

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"rawdex/internal/store"
)

// console implements the line protocol of one session. All commands are
// read-only views over the shared store, so sessions need no locking of
// their own.
type console struct {
	store *store.Store
	limit int
}

// run reads commands from r line by line and writes responses to w until
// the client quits or the stream ends. The returned error is the read
// error, if any; a client disconnect is nil.
func (c *console) run(r io.Reader, w io.Writer) error {
	fmt.Fprintln(w, "rawdex query console")
	fmt.Fprintln(w, "commands: search <query> | show <module> <identifier> | count | quit")

	scanner := bufio.NewScanner(r)
	fmt.Fprint(w, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !c.handle(w, line) {
			return nil
		}
		fmt.Fprint(w, "> ")
	}
	return scanner.Err()
}

// handle dispatches one command line. It returns false when the session
// should end.
func (c *console) handle(w io.Writer, line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "search":
		c.handleSearch(w, args)
	case "show":
		c.handleShow(w, args)
	case "count":
		c.handleCount(w)
	case "quit":
		fmt.Fprintln(w, "bye")
		return false
	default:
		fmt.Fprintf(w, "error: unknown command %q\n", cmd)
	}
	return true
}

func (c *console) handleSearch(w io.Writer, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(w, "error: usage: search <query>")
		return
	}

	q := store.Query{Text: strings.Join(args, " "), Limit: c.limit}
	matches := c.store.Search(q)
	total := c.store.Count(q)
	if total == 0 {
		fmt.Fprintln(w, "no matches")
		return
	}

	for _, m := range matches {
		o := m.Object
		name := ""
		if len(o.Names) > 0 {
			name = o.Names[0]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.Module, o.Identifier, o.Category, name)
	}
	fmt.Fprintf(w, "%d match(es)\n", total)
}

func (c *console) handleShow(w io.Writer, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(w, "error: usage: show <module> <identifier>")
		return
	}

	obj, ok := c.store.Lookup(args[0], args[1])
	if !ok {
		fmt.Fprintf(w, "error: not found: %s %s\n", args[0], args[1])
		return
	}

	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "error: encode: %v\n", err)
		return
	}
	fmt.Fprintf(w, "%s\n", data)
}

func (c *console) handleCount(w io.Writer) {
	fmt.Fprintf(w, "%d objects in %d modules\n", c.store.Len(), len(c.store.Modules()))
}
