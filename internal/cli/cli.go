// Package cli is the interactive shell: a blocking menu loop on standard
// input that drives the task list and prints results. Control only flows
// downward, shell -> list -> task.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/amirbrooks/todo-shell/internal/store"
)

// Exit codes
const (
	ExitOK       = 0
	ExitInternal = 10
)

type shell struct {
	in   *bufio.Scanner
	out  io.Writer
	list *store.List
}

// Run loads the tasks file if it exists and enters the menu loop. It
// returns ExitOK on a normal exit (menu choice 8, or end of input) and
// ExitInternal when a storage error surfaces; those are never recovered.
func Run(in io.Reader, out io.Writer, path string) int {
	s := &shell{
		in:   bufio.NewScanner(in),
		out:  out,
		list: store.NewList(path),
	}
	if err := s.list.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "todo:", err)
		return ExitInternal
	}
	if err := s.loop(); err != nil {
		if errors.Is(err, io.EOF) {
			return ExitOK
		}
		fmt.Fprintln(os.Stderr, "todo:", err)
		return ExitInternal
	}
	return ExitOK
}

func (s *shell) loop() error {
	for {
		s.printMenu()
		choice, err := s.prompt("Enter your choice: ")
		if err != nil {
			return err
		}
		switch strings.TrimSpace(choice) {
		case "1":
			if err := s.createTask(); err != nil {
				return err
			}
		case "2", "3", "4", "6":
			if s.list.Len() == 0 {
				s.println("The to-do list is empty. Please add a task first.")
				continue
			}
			s.displayTasks()
			var err error
			switch strings.TrimSpace(choice) {
			case "2":
				err = s.updateTask()
			case "3":
				err = s.removeTask()
			case "4":
				err = s.viewTask()
			case "6":
				err = s.saveTasks()
			}
			if err != nil {
				return err
			}
		case "5":
			if err := s.clearTasks(); err != nil {
				return err
			}
		case "7":
			if err := s.loadTasks(); err != nil {
				return err
			}
		case "8":
			if err := s.list.Save(); err != nil {
				return err
			}
			s.println("Tasks saved. Exiting the application.")
			return nil
		default:
			s.errorln("Invalid choice. Please enter a number between 1 and 8.")
		}
	}
}

func (s *shell) printMenu() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, titleStyle.Render("To-Do List App"))
	fmt.Fprintln(s.out, "1. Create a new task")
	fmt.Fprintln(s.out, "2. Update a task")
	fmt.Fprintln(s.out, "3. Remove a task")
	fmt.Fprintln(s.out, "4. View tasks")
	fmt.Fprintln(s.out, "5. Clear all tasks")
	fmt.Fprintln(s.out, "6. Save tasks")
	fmt.Fprintln(s.out, "7. Load tasks")
	fmt.Fprintln(s.out, "8. Exit")
}

func (s *shell) createTask() error {
	var title string
	for {
		t, err := s.prompt("Enter task title: ")
		if err != nil {
			return err
		}
		if s.list.IsDuplicate(t) {
			s.errorln("Duplicate task title. Please enter another title.")
			continue
		}
		title = t
		break
	}
	description, err := s.prompt("Enter task description: ")
	if err != nil {
		return err
	}
	for {
		dueDate, err := s.prompt("Enter task due date (dd-mm-yyyy): ")
		if err != nil {
			return err
		}
		dueTime, err := s.prompt("Enter task due time (HH:MM): ")
		if err != nil {
			return err
		}
		amPM, err := s.promptAMPM()
		if err != nil {
			return err
		}
		if amPM == "" {
			continue
		}
		due, ok := s.validate(dueDate, dueTime+" "+amPM)
		if !ok {
			s.errorln("Invalid date or time. Please enter again.")
			continue
		}
		s.printTimeLeft(due)
		s.list.Add(store.NewTask(title, description,
			due.Format(store.DateLayout), due.Format(store.TimeLayout)))
		s.println("Task added.")
		s.printf("Total tasks: %d\n", s.list.Len())
		return nil
	}
}

func (s *shell) updateTask() error {
	idx, err := s.promptIndex("Enter the number of the task to update: ")
	if err != nil || idx < 0 {
		return err
	}
	title := s.list.Tasks()[idx].Title
	s.displayDetails(idx)

	s.println("What do you want to update?")
	s.println("1. Title")
	s.println("2. Description")
	s.println("3. Due Date")
	s.println("4. Due Time")
	choice, err := s.prompt("Enter your choice: ")
	if err != nil {
		return err
	}

	switch strings.TrimSpace(choice) {
	case "1":
		newTitle, err := s.prompt("Enter new title: ")
		if err != nil {
			return err
		}
		if s.list.IsDuplicate(newTitle) {
			s.errorln("Duplicate task title. Please enter another title.")
			return nil
		}
		if err := s.list.Update(title, store.UpdateInput{Title: newTitle}); err != nil {
			return err
		}
		s.println("Task updated.")
	case "2":
		newDescription, err := s.prompt("Enter new description: ")
		if err != nil {
			return err
		}
		if err := s.list.Update(title, store.UpdateInput{Description: newDescription}); err != nil {
			return err
		}
		s.println("Task updated.")
	case "3":
		newDueDate, err := s.prompt("Enter new due date (dd-mm-yyyy): ")
		if err != nil {
			return err
		}
		due, ok := s.validate(newDueDate, s.list.Tasks()[idx].DueTime)
		if !ok {
			s.errorln("Invalid input. Please enter a valid date.")
			return nil
		}
		if err := s.list.Update(title, store.UpdateInput{DueDate: due.Format(store.DateLayout)}); err != nil {
			return err
		}
		s.println("Task updated.")
	case "4":
		newDueTime, err := s.prompt("Enter new due time (HH:MM): ")
		if err != nil {
			return err
		}
		amPM, err := s.promptAMPM()
		if err != nil {
			return err
		}
		if amPM == "" {
			return nil
		}
		due, ok := s.validate(s.list.Tasks()[idx].DueDate, newDueTime+" "+amPM)
		if !ok {
			s.errorln("Invalid input. Please enter a valid time.")
			return nil
		}
		if err := s.list.Update(title, store.UpdateInput{DueTime: due.Format(store.TimeLayout)}); err != nil {
			return err
		}
		s.println("Task updated.")
	default:
		s.errorln("Invalid choice. Please enter a valid option.")
	}
	return nil
}

func (s *shell) removeTask() error {
	idx, err := s.promptIndex("Enter the number of the task to remove: ")
	if err != nil || idx < 0 {
		return err
	}
	if err := s.list.Remove(s.list.Tasks()[idx].Title); err != nil {
		return err
	}
	s.println("Task removed.")
	s.printf("Total tasks: %d\n", s.list.Len())
	return nil
}

func (s *shell) viewTask() error {
	idx, err := s.promptIndex("Enter the number of the task to view details: ")
	if err != nil || idx < 0 {
		return err
	}
	s.displayDetails(idx)
	return nil
}

func (s *shell) clearTasks() error {
	if s.list.Len() == 0 {
		s.println("The to-do list is already empty.")
		return nil
	}
	answer, err := s.prompt("Are you sure you want to clear all tasks? (yes/no): ")
	if err != nil {
		return err
	}
	if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
		return nil
	}
	if err := s.list.Clear(); err != nil {
		return err
	}
	s.println("All tasks cleared.")
	return nil
}

func (s *shell) saveTasks() error {
	if err := s.list.Save(); err != nil {
		return err
	}
	s.println("Tasks saved.")
	return nil
}

func (s *shell) loadTasks() error {
	if _, err := os.Stat(s.list.Path()); err != nil {
		s.println("No saved tasks found.")
		return nil
	}
	if err := s.list.Load(); err != nil {
		return err
	}
	s.println("Tasks loaded.")
	return nil
}

func (s *shell) displayTasks() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Current tasks:")
	w := tabwriter.NewWriter(s.out, 2, 4, 2, ' ', 0)
	for i, t := range s.list.Tasks() {
		fmt.Fprintf(w, "%d.\t%s\n", i+1, t.Title)
	}
	_ = w.Flush()
	s.printf("Total tasks: %d\n", s.list.Len())
}

func (s *shell) displayDetails(idx int) {
	t := s.list.Tasks()[idx]
	fmt.Fprintln(s.out)
	s.printf("Task %d:\n", idx+1)
	w := tabwriter.NewWriter(s.out, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Title\t: %s\n", t.Title)
	fmt.Fprintf(w, "Description\t: %s\n", t.Description)
	fmt.Fprintf(w, "Due Date\t: %s\n", t.DueDate)
	fmt.Fprintf(w, "Due Time\t: %s\n", t.DueTime)
	_ = w.Flush()
	if due, err := t.DueMoment(); err == nil {
		s.printTimeLeft(due)
	}
}

func (s *shell) printTimeLeft(due time.Time) {
	days, hours := store.TimeLeft(due)
	s.printf("Time left for the task: %d days and %d hours\n", days, hours)
}

// validate parses the date/time pair and prints the failure message that
// matches the cause. The two causes unwind identically; only the message
// differs.
func (s *shell) validate(dateText, timeText string) (time.Time, bool) {
	due, err := store.ValidateDueDate(dateText, timeText)
	if err != nil {
		if errors.Is(err, store.ErrPastDue) {
			s.errorln("Invalid due date: The date and time have already passed.")
		} else {
			s.errorln("Invalid date/time format. Please use dd-mm-yyyy for date and HH:MM AM/PM for time.")
		}
		return time.Time{}, false
	}
	return due, true
}

// promptAMPM returns "AM", "PM", or "" after printing the complaint for
// any other token.
func (s *shell) promptAMPM() (string, error) {
	amPM, err := s.prompt("Enter AM or PM: ")
	if err != nil {
		return "", err
	}
	amPM = strings.ToUpper(strings.TrimSpace(amPM))
	if amPM != "AM" && amPM != "PM" {
		s.errorln("Invalid input. Please enter either AM or PM.")
		return "", nil
	}
	return amPM, nil
}

// promptIndex reads a 1-based task number and converts it to a 0-based
// index. Non-numeric and out-of-range input both report an invalid task
// number and return -1 so the sub-flow aborts back to the menu.
func (s *shell) promptIndex(label string) (int, error) {
	text, err := s.prompt(label)
	if err != nil {
		return -1, err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(text))
	if convErr != nil || n < 1 || n > s.list.Len() {
		s.errorln("Invalid task number.")
		return -1, nil
	}
	return n - 1, nil
}

func (s *shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.in.Text(), nil
}

func (s *shell) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *shell) errorln(msg string) {
	fmt.Fprintln(s.out, errorStyle.Render(msg))
}
