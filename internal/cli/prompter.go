package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Veraticus/khata/internal/model"
	"github.com/shopspring/decimal"
)

// Prompter asks the user questions on a terminal.
type Prompter struct {
	writer io.Writer
	reader *LineReader
}

// NewPrompter creates a prompter reading from reader and writing to writer.
// Nil values fall back to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.ask(ctx, question+" [y/N]")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Ask reads a free-text answer. An empty answer returns def.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt += " [" + def + "]"
	}
	answer, err := p.ask(ctx, prompt)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Choose lists options and reads a selection by number or by value. An empty
// answer returns def when def is one of the options.
func (p *Prompter) Choose(ctx context.Context, label string, options []string, def string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options for %s", label)
	}

	for i, opt := range options {
		marker := " "
		if opt == def {
			marker = "*"
		}
		if _, err := fmt.Fprintf(p.writer, " %s[%d] %s\n", marker, i+1, opt); err != nil {
			return "", fmt.Errorf("failed to write option: %w", err)
		}
	}

	for {
		answer, err := p.Ask(ctx, label, def)
		if err != nil {
			return "", err
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		for _, opt := range options {
			if strings.EqualFold(answer, opt) {
				return opt, nil
			}
		}
		p.complain("Invalid choice. Please try again.")
	}
}

// AskAmount reads a positive decimal. A zero def means there is no default.
func (p *Prompter) AskAmount(ctx context.Context, label string, def decimal.Decimal) (decimal.Decimal, error) {
	defText := ""
	if def.IsPositive() {
		defText = def.String()
	}

	for {
		answer, err := p.Ask(ctx, label, defText)
		if err != nil {
			return decimal.Zero, err
		}
		amount, parseErr := decimal.NewFromString(answer)
		if parseErr == nil && amount.IsPositive() {
			return amount, nil
		}
		p.complain("Enter a number greater than 0.")
	}
}

// AskDate reads a YYYY-MM-DD date.
func (p *Prompter) AskDate(ctx context.Context, label string, def model.Date) (model.Date, error) {
	for {
		answer, err := p.Ask(ctx, label, def.String())
		if err != nil {
			return model.Date{}, err
		}
		d, parseErr := model.ParseDate(answer)
		if parseErr == nil {
			return d, nil
		}
		p.complain("Enter a date as YYYY-MM-DD.")
	}
}

// CompleteDraft walks the user through every field of a draft, offering the
// draft's current values as defaults. suggest lists known subcategories for
// a category and may be nil.
func (p *Prompter) CompleteDraft(ctx context.Context, d model.Draft, suggest func(model.Category) []string) (model.Draft, error) {
	in := d.Input

	typeName, err := p.Choose(ctx, "Type", []string{string(model.TypeIncome), string(model.TypeExpense)}, string(in.Type))
	if err != nil {
		return d, err
	}
	in.Type = model.TransactionType(typeName)

	categories := model.CategoriesFor(in.Type)
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	category, err := p.Choose(ctx, "Category", names, string(in.Category))
	if err != nil {
		return d, err
	}
	in.Category = model.Category(category)

	if suggest != nil {
		if known := suggest(in.Category); len(known) > 0 {
			p.say(SubtleStyle.Render("Known: " + strings.Join(known, ", ")))
		}
	}
	if in.Subcategory, err = p.Ask(ctx, "Subcategory", in.Subcategory); err != nil {
		return d, err
	}
	if in.Description, err = p.Ask(ctx, "Description", in.Description); err != nil {
		return d, err
	}
	if in.Amount, err = p.AskAmount(ctx, "Amount", in.Amount); err != nil {
		return d, err
	}

	mode, err := p.Choose(ctx, "Payment mode", []string{string(model.PaymentCash), string(model.PaymentDigital)}, string(in.PaymentMode))
	if err != nil {
		return d, err
	}
	in.PaymentMode = model.PaymentMode(mode)

	if in.Date, err = p.AskDate(ctx, "Date", in.Date); err != nil {
		return d, err
	}

	if in.Category == model.CategoryFarming {
		fd, err := p.askFarming(ctx, in.FarmingDetails)
		if err != nil {
			return d, err
		}
		in.FarmingDetails = fd
	} else {
		in.FarmingDetails = nil
	}

	d.Input = in
	return d, nil
}

func (p *Prompter) askFarming(ctx context.Context, current *model.FarmingDetails) (*model.FarmingDetails, error) {
	fd := model.FarmingDetails{}
	if current != nil {
		fd = *current
	}

	var err error
	if fd.Quantity, err = p.AskAmount(ctx, "Quantity", fd.Quantity); err != nil {
		return nil, err
	}

	units := model.Units()
	unitNames := make([]string, len(units))
	for i, u := range units {
		unitNames[i] = string(u)
	}
	unit, err := p.Choose(ctx, "Unit", unitNames, string(fd.Unit))
	if err != nil {
		return nil, err
	}
	fd.Unit = model.Unit(unit)

	sales := model.SaleTypes()
	saleNames := make([]string, len(sales))
	for i, s := range sales {
		saleNames[i] = string(s)
	}
	sale, err := p.Choose(ctx, "Sale type", saleNames, string(fd.SaleType))
	if err != nil {
		return nil, err
	}
	fd.SaleType = model.SaleType(sale)

	if fd.Comments, err = p.Ask(ctx, "Comments", fd.Comments); err != nil {
		return nil, err
	}
	return &fd, nil
}

func (p *Prompter) ask(ctx context.Context, prompt string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	return p.reader.ReadLine(ctx)
}

func (p *Prompter) say(line string) {
	if _, err := fmt.Fprintln(p.writer, line); err != nil {
		slog.Warn("Failed to write prompt output", "error", err)
	}
}

func (p *Prompter) complain(message string) {
	p.say(FormatError(message))
}
