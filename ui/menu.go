package ui

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/eiannone/keyboard"
)

type MenuItem struct {
	Label string
	Value string
}

type Menu struct {
	Title    string
	Items    []MenuItem
	Selected int
	Width    int
}

func NewMenu(title string, items []MenuItem) *Menu {
	return &Menu{
		Title:    title,
		Items:    items,
		Selected: 0,
		Width:    60,
	}
}

func (m *Menu) clearScreen() {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "cls")
	} else {
		cmd = exec.Command("clear")
	}
	cmd.Stdout = os.Stdout
	cmd.Run()
}

func (m *Menu) border(left, right string) string {
	return left + strings.Repeat("═", m.Width-2) + right
}

func (m *Menu) centerText(text string, width int) string {
	n := len([]rune(text))
	if n >= width-4 {
		return string([]rune(text)[:width-4])
	}
	padding := (width - n - 4) / 2
	return strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-n-padding-4)
}

const banner = `
███╗   ██╗ ██████╗ ████████╗██████╗ ██╗███████╗
████╗  ██║██╔═══██╗╚══██╔══╝██╔══██╗██║██╔════╝
██╔██╗ ██║██║   ██║   ██║   ██████╔╝██║███████╗
██║╚██╗██║██║   ██║   ██║   ██╔══██╗██║╚════██║
██║ ╚████║╚██████╔╝   ██║   ██║  ██║██║███████║
╚═╝  ╚═══╝ ╚═════╝    ╚═╝   ╚═╝  ╚═╝╚═╝╚══════╝
`

func (m *Menu) render() {
	m.clearScreen()
	fmt.Print(banner)
	fmt.Println()

	fmt.Println(m.border("╔", "╗"))
	fmt.Printf("║ %s ║\n", m.centerText(m.Title, m.Width))
	fmt.Println(m.border("╠", "╣"))

	for i, item := range m.Items {
		prefix := "  "
		if i == m.Selected {
			prefix = "► "
		}
		text := m.centerText(prefix+item.Label, m.Width)
		if i == m.Selected {
			fmt.Printf("║ \033[7m%s\033[0m ║\n", text)
		} else {
			fmt.Printf("║ %s ║\n", text)
		}
	}

	fmt.Println(m.border("╚", "╝"))
	fmt.Println()
	fmt.Println("Use ↑/↓ arrows to navigate, Enter to select, 'q' to quit")
}

func (m *Menu) moveUp() {
	if m.Selected > 0 {
		m.Selected--
	} else {
		m.Selected = len(m.Items) - 1 // Wrap to bottom
	}
}

func (m *Menu) moveDown() {
	if m.Selected < len(m.Items)-1 {
		m.Selected++
	} else {
		m.Selected = 0 // Wrap to top
	}
}

// Show draws the menu until an item is chosen. It returns "exit" when the
// player quits.
func (m *Menu) Show() string {
	if err := keyboard.Open(); err != nil {
		fmt.Printf("Failed to open keyboard: %v\n", err)
		return ""
	}
	defer keyboard.Close()

	for {
		m.render()

		char, key, err := keyboard.GetKey()
		if err != nil {
			fmt.Printf("Error reading key: %v\n", err)
			return ""
		}

		switch key {
		case keyboard.KeyArrowUp:
			m.moveUp()
		case keyboard.KeyArrowDown:
			m.moveDown()
		case keyboard.KeyEnter:
			return m.Items[m.Selected].Value
		case keyboard.KeyEsc:
			return "exit"
		}

		if char == 'q' || char == 'Q' {
			return "exit"
		}
	}
}
