package main

import (
	"fmt"
	"strconv"

	"github.com/mslomka/wwdc"
)

// Run executes the "list topics" command. Counts come from the cached
// topic index; no network access happens here.
func (c *TopicsCmd) Run(deps *Dependencies) error {
	cache, warnings, err := deps.Store.Load(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wwdc.ErrorMessage(err))
		return err
	}
	for _, w := range warnings {
		deps.Logger.Warn("cache reconciliation", "warning", w)
	}

	rows := make([][]string, 0, len(wwdc.OfficialTopics()))
	for _, topic := range wwdc.OfficialTopics() {
		count := len(cache.TopicSessions(topic.Slug))
		rows = append(rows, []string{topic.Slug, topic.Name, strconv.Itoa(count)})
	}

	fmt.Fprintln(deps.Stdout, renderTable(
		[]string{"Slug", "Name", "Sessions"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight},
	))

	if !cache.HasTopics() {
		fmt.Fprintln(deps.Stdout, "Topic index is empty. Run 'wwdc download' to build it.")
	}
	return nil
}

// Run executes the "list sessions" command, served entirely from the
// cache.
func (c *SessionsCmd) Run(deps *Dependencies) error {
	if c.Topic != "" && !wwdc.IsOfficialTopic(c.Topic) {
		err := wwdc.Errorf(wwdc.ENOTFOUND, "unknown topic %q", c.Topic)
		fmt.Fprintf(deps.Stderr, "error: %s\n", wwdc.ErrorMessage(err))
		return err
	}

	cache, warnings, err := deps.Store.Load(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wwdc.ErrorMessage(err))
		return err
	}
	for _, w := range warnings {
		deps.Logger.Warn("cache reconciliation", "warning", w)
	}

	sessions := cache.Sessions()
	var rows [][]string
	for _, s := range sessions {
		if c.Topic != "" && s.Topic != c.Topic {
			continue
		}
		rows = append(rows, []string{s.ID, s.Title, s.Topic, s.Path})
	}

	if len(rows) == 0 {
		fmt.Fprintln(deps.Stdout, "No cached sessions. Run 'wwdc download' first.")
		return nil
	}

	fmt.Fprintln(deps.Stdout, renderTable(
		[]string{"ID", "Title", "Topic", "Path"},
		rows,
		nil,
	))
	return nil
}
