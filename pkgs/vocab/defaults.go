package vocab

// Binder resolves the handler for a shortcut label or phrase key.
// Returning nil keeps the command in the grammar without a handler.
type Binder func(name string) Handler

// BindMap binds handlers by name and uses fallback for names not in the map.
// Either argument may be nil.
func BindMap(handlers map[string]Handler, fallback Handler) Binder {
	return func(name string) Handler {
		if h, ok := handlers[name]; ok {
			return h
		}
		return fallback
	}
}

// defaultShortcuts is the stock shortcut table. Order matters.
var defaultShortcuts = []struct {
	prefix string
	length int
	label  string
}{
	{"1", 0, "poke"},
	{"93", 0, "list_shop"},
	{"25", 2, "create_action"},
	{"28", 0, "create_attr"},
	{"4", 0, "super_create_attr"},
	{"6", 0, "configure"},
	{"98", 0, "list_attr"},
	{"95", 0, "list_actions"},
	{"27", 0, "add_log"},
	{"97", 0, "list_logs"},
	{"997", 0, "list_days"},
	{"07", 0, "drop_log"},
	{"007", 0, "drop_day"},
	{"71", 0, "wake"},
	{"70", 0, "sleep"},
	{"770", 0, "nap"},
	{"247", 0, "new_sequence"},
	{"947", 0, "list_sequences"},
	{"047", 0, "drop_sequence"},
	{"005", 0, "drop_actions"},
	{"008", 0, "drop_attr"},
}

var defaultPhrases = []string{
	"attr add action",
	"action act",
	"delete attr",
	"delete action",
	"add add attr",
	"attr add attr",
	"shop_item act",
}

// Default builds the stock habit-tracker vocabulary. bind may be nil, in
// which case every command is registered without a handler.
func Default(bind Binder) (*Registry, error) {
	if bind == nil {
		bind = func(string) Handler { return nil }
	}

	b := NewBuilder().
		Object('8', "attr", 2).
		CodedObject('5', "action").
		Object('3', "shop_item", 1).
		Object('7', "log", 0).
		Interaction('2', "add", 0).
		Interaction('1', "act", 0).
		Interaction('0', "delete", 0).
		Interaction('6', "configure", 0)

	for _, sc := range defaultShortcuts {
		b.Shortcut(sc.prefix, sc.length, sc.label, bind(sc.label))
	}
	for _, key := range defaultPhrases {
		b.Phrase(key, bind(key))
	}
	return b.Build()
}
