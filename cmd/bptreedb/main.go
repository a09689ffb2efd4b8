// Command bptreedb is a thin interactive shell over pkg/btree. Besides
// .help and .exit it parses five statement forms (insert, delete, update,
// select by id, select by id range) and calls the tree directly: it holds
// no tree logic of its own.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"
	"github.com/spf13/afero"

	"bptreedb/pkg/btree"
	"bptreedb/pkg/record"
)

const (
	prompt      = "> "
	historyFile = ".bptreedb_history"
	helpMessage = `***************************************************************************
welcome to the B+Tree database
***************************************************************************
  .help                                              print help message
  .exit                                              exit the shell
  insert db {idx} {name} {age} {email}               insert record
  delete from db where id = {idx}                    delete record
  update db {name} {age} {email} where id = {idx}     update record
  select * from db where id = {idx}                   search by index
  select * from db where id in ({lo},{hi})            search in range
***************************************************************************`
)

var (
	insertRe = regexp.MustCompile(`^insert\s+db\s+(\S+)\s+(\S+)\s+(\S+)\s+(\S+);?$`)
	deleteRe = regexp.MustCompile(`^delete\s+from\s+db\s+where\s+id\s*=\s*(\S+);?$`)
	updateRe = regexp.MustCompile(`^update\s+db\s+(\S+)\s+(\S+)\s+(\S+)\s+where\s+id\s*=\s*(\S+);?$`)
	selectRe = regexp.MustCompile(`^select\s+\*\s+from\s+db\s+where\s+id\s*=\s*(\S+);?$`)
	rangeRe  = regexp.MustCompile(`^select\s+\*\s+from\s+db\s+where\s+id\s+in\s*\(\s*(\S+?)\s*,\s*(\S+?)\s*\);?$`)
)

func main() {
	path := "db.bin"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	tree, err := btree.Open(afero.NewOsFs(), path, btree.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open %s: %v\n", path, err)
		os.Exit(1)
	}

	runShell(tree)
}

func runShell(tree *btree.Tree) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	fmt.Println(helpMessage)

	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				break
			}
			fmt.Fprintf(os.Stderr, "input error: %v\n", err)
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if input == ".exit" {
			break
		}
		dispatch(tree, input)
	}

	if f, err := os.Create(historyFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
	fmt.Println("bye!")
}

func dispatch(tree *btree.Tree, input string) {
	switch {
	case input == ".help":
		fmt.Println(helpMessage)
	case insertRe.MatchString(input):
		handleInsert(tree, insertRe.FindStringSubmatch(input))
	case deleteRe.MatchString(input):
		handleDelete(tree, deleteRe.FindStringSubmatch(input))
	case updateRe.MatchString(input):
		handleUpdate(tree, updateRe.FindStringSubmatch(input))
	case rangeRe.MatchString(input):
		handleRange(tree, rangeRe.FindStringSubmatch(input))
	case selectRe.MatchString(input):
		handleSelect(tree, selectRe.FindStringSubmatch(input))
	default:
		fmt.Println("your input is invalid, print \".help\" for more information")
	}
}

func handleInsert(tree *btree.Tree, m []string) {
	age, err := strconv.Atoi(m[3])
	if err != nil {
		fmt.Printf("failed: invalid age %q\n", m[3])
		return
	}
	key := record.NewKey(m[1])
	value := record.NewValue(m[2], int32(age), m[4])

	if err := tree.Insert(key, value); err != nil {
		if errors.Is(err, btree.ErrDuplicate) {
			fmt.Printf("failed: already exists index %s\n", m[1])
			return
		}
		fmt.Printf("failed: %v\n", err)
		return
	}
	fmt.Printf("executed insert index %s\n", m[1])
}

func handleDelete(tree *btree.Tree, m []string) {
	key := record.NewKey(m[1])
	if err := tree.Remove(key); err != nil {
		if errors.Is(err, btree.ErrNotFound) {
			fmt.Printf("failed: no index %s\n", m[1])
			return
		}
		fmt.Printf("failed: %v\n", err)
		return
	}
	fmt.Printf("executed delete index %s\n", m[1])
}

func handleUpdate(tree *btree.Tree, m []string) {
	age, err := strconv.Atoi(m[2])
	if err != nil {
		fmt.Printf("failed: invalid age %q\n", m[2])
		return
	}
	key := record.NewKey(m[4])
	value := record.NewValue(m[1], int32(age), m[3])

	if err := tree.Update(key, value); err != nil {
		if errors.Is(err, btree.ErrNotFound) {
			fmt.Printf("failed: no index %s\n", m[4])
			return
		}
		fmt.Printf("failed: %v\n", err)
		return
	}
	fmt.Printf("executed update index %s\n", m[4])
}

func handleSelect(tree *btree.Tree, m []string) {
	key := record.NewKey(m[1])
	value, ok, err := tree.Search(key)
	if err != nil {
		fmt.Printf("failed: %v\n", err)
		return
	}
	if !ok {
		fmt.Printf("index %s doesn't exist\n", m[1])
		return
	}
	printTable([]string{m[1]}, []record.Value{value})
}

// handleRange walks the index range one key at a time rather than using
// SearchRange, since these indices are formatted as decimal strings and
// the tree's ordering is length-then-lexicographic over that text, not
// numeric.
func handleRange(tree *btree.Tree, m []string) {
	lo, errLo := strconv.Atoi(m[1])
	hi, errHi := strconv.Atoi(m[2])
	if errLo != nil || errHi != nil || lo > hi {
		fmt.Println("your input is invalid, print \".help\" for more information")
		return
	}

	var ids []string
	var values []record.Value
	for i := lo; i <= hi; i++ {
		idxStr := strconv.Itoa(i)
		value, ok, err := tree.Search(record.NewKey(idxStr))
		if err != nil {
			fmt.Printf("failed: %v\n", err)
			return
		}
		if !ok {
			continue
		}
		ids = append(ids, idxStr)
		values = append(values, value)
	}
	printTable(ids, values)
}

func printTable(ids []string, values []record.Value) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"id", "name", "age", "email"})
	for i, value := range values {
		table.Append([]string{
			ids[i],
			value.NameString(),
			strconv.Itoa(int(value.Age)),
			value.EmailString(),
		})
	}
	table.Render()
}
