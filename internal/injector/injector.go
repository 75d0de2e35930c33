// Package injector writes resolved values into live form controls. Each
// control kind gets its own write strategy, and every strategy dispatches
// the event superset modern frameworks listen on so the host page observes
// the change as if a user typed it.
package injector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vennverse/formfill/internal/interfaces"
	"github.com/vennverse/formfill/internal/logging"
	"github.com/vennverse/formfill/internal/model"
)

// Injector implements interfaces.Injector against a DOMSession.
type Injector struct {
	logger logging.Logger
}

var _ interfaces.Injector = (*Injector)(nil)

// New creates an Injector.
func New(logger logging.Logger) *Injector {
	return &Injector{
		logger: logger.With(logging.Field{Key: "component", Value: "injector"}),
	}
}

// Inject writes value into the element and reports whether the page
// confirmed the write. It never returns an error: a failed injection is a
// skipped field, and the caller may retry it on a later pass.
func (i *Injector) Inject(ctx context.Context, session interfaces.DOMSession, el *model.Element, value string) bool {
	if el == nil || value == "" {
		return false
	}

	var js string
	switch el.Kind {
	case model.ControlSelect:
		idx, ok := MatchOption(el.Options, value)
		if !ok {
			i.logger.Debug("no select option matched",
				logging.Field{Key: "identity", Value: el.Identity},
				logging.Field{Key: "value", Value: value})
			return false
		}
		js = selectScript(el.Locator, idx)
	case model.ControlCheckable:
		js = checkableScript(el.Locator, Truthy(value))
	case model.ControlContentEditable:
		js = contentEditableScript(el.Locator, value)
	default:
		// text inputs and textareas share the native-setter strategy
		js = textScript(el.Locator, value)
	}

	var ok bool
	if err := session.Eval(ctx, js, &ok); err != nil {
		i.logger.Warn("injection eval failed",
			logging.Field{Key: "identity", Value: el.Identity},
			logging.Field{Key: "error", Value: err.Error()})
		return false
	}
	if !ok {
		i.logger.Debug("page rejected injected value",
			logging.Field{Key: "identity", Value: el.Identity})
	}
	return ok
}

// CurrentValue probes the live control's present value. Form snapshots do
// not reflect typed-in input properties, so the probe goes through the page.
func (i *Injector) CurrentValue(ctx context.Context, session interfaces.DOMSession, el *model.Element) string {
	var v string
	if err := session.Eval(ctx, currentValueScript(el.Locator), &v); err != nil {
		i.logger.Debug("value probe failed",
			logging.Field{Key: "identity", Value: el.Identity},
			logging.Field{Key: "error", Value: err.Error()})
		return ""
	}
	return strings.TrimSpace(v)
}

// Notify renders a transient toast in the page so a human watching the
// browser sees what just happened. Best effort; failures are ignored.
func (i *Injector) Notify(ctx context.Context, session interfaces.DOMSession, message string) {
	if err := session.Eval(ctx, toastScript(message), nil); err != nil {
		i.logger.Debug("toast failed", logging.Field{Key: "error", Value: err.Error()})
	}
}

// truthyTokens are the values that check a checkbox/radio. Anything else
// unchecks it.
var truthyTokens = map[string]bool{
	"yes": true, "true": true, "1": true, "on": true, "checked": true,
}

// Truthy reports whether a resolved value should check a checkable control.
func Truthy(value string) bool {
	return truthyTokens[strings.ToLower(strings.TrimSpace(value))]
}

// MatchOption finds the option a value should select, in three tiers:
// exact match on value or text, then case-insensitive equality, then
// case-insensitive substring containment in either direction. Earlier tiers
// always win, and within a tier the first option wins.
func MatchOption(options []model.SelectOption, value string) (int, bool) {
	for _, opt := range options {
		if opt.Value == value || opt.Text == value {
			return opt.Index, true
		}
	}

	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return 0, false
	}
	for _, opt := range options {
		if strings.ToLower(opt.Value) == lower || strings.ToLower(strings.TrimSpace(opt.Text)) == lower {
			return opt.Index, true
		}
	}

	for _, opt := range options {
		v := strings.ToLower(opt.Value)
		t := strings.ToLower(strings.TrimSpace(opt.Text))
		for _, cand := range []string{v, t} {
			if cand == "" {
				continue
			}
			if strings.Contains(cand, lower) || strings.Contains(lower, cand) {
				return opt.Index, true
			}
		}
	}
	return 0, false
}

// jsStr JSON-encodes a Go string into a JavaScript string literal.
func jsStr(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// textScript writes through the prototype value setter so framework-patched
// instance setters (React's controlled inputs in particular) cannot swallow
// the write, clears any prefill first, then dispatches the full event set.
func textScript(locator, value string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	const value = %s;
	const proto = el.tagName === 'TEXTAREA'
		? window.HTMLTextAreaElement.prototype
		: window.HTMLInputElement.prototype;
	const desc = Object.getOwnPropertyDescriptor(proto, 'value');
	const set = desc && desc.set ? desc.set.bind(el) : (v) => { el.value = v; };
	el.focus();
	set('');
	el.dispatchEvent(new Event('input', { bubbles: true }));
	set(value);
	if (el._valueTracker) el._valueTracker.setValue('');
	for (const type of ['keydown', 'keyup', 'paste', 'input', 'change', 'blur']) {
		el.dispatchEvent(new Event(type, { bubbles: true }));
	}
	if (window.jQuery && window.jQuery(el).length) {
		window.jQuery(el).trigger('input').trigger('change');
	}
	return el.value === value;
})()`, jsStr(locator), jsStr(value))
}

func selectScript(locator string, index int) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el || !el.options || el.options.length <= %d) return false;
	el.selectedIndex = %d;
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.dispatchEvent(new Event('change', { bubbles: true }));
	if (window.jQuery && window.jQuery(el).length) {
		window.jQuery(el).trigger('change');
	}
	return el.selectedIndex === %d;
})()`, jsStr(locator), index, index, index)
}

func checkableScript(locator string, checked bool) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	const want = %t;
	if (el.checked !== want) el.click();
	if (el.checked !== want) {
		el.checked = want;
		el.dispatchEvent(new Event('change', { bubbles: true }));
	}
	return el.checked === want;
})()`, jsStr(locator), checked)
}

func contentEditableScript(locator, value string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	const value = %s;
	el.focus();
	el.textContent = value;
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.dispatchEvent(new Event('blur', { bubbles: true }));
	return (el.textContent || '') === value;
})()`, jsStr(locator), jsStr(value))
}

func currentValueScript(locator string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return '';
	if (el.tagName === 'SELECT') {
		return el.selectedIndex > 0 ? (el.value || el.options[el.selectedIndex].text) : '';
	}
	if (el.type === 'checkbox' || el.type === 'radio') {
		return el.checked ? 'on' : '';
	}
	if (el.isContentEditable) return el.textContent || '';
	return el.value || '';
})()`, jsStr(locator))
}

func toastScript(message string) string {
	return fmt.Sprintf(`(() => {
	const toast = document.createElement('div');
	toast.textContent = %s;
	toast.style.cssText = 'position:fixed;bottom:24px;right:24px;z-index:2147483647;' +
		'background:#1f2937;color:#fff;padding:10px 16px;border-radius:6px;' +
		'font:13px/1.4 sans-serif;box-shadow:0 4px 12px rgba(0,0,0,.3);opacity:.95';
	document.body.appendChild(toast);
	setTimeout(() => toast.remove(), 3000);
})()`, jsStr(message))
}
