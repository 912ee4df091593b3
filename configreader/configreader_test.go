package configreader

import (
	stderrors "errors"
	"testing"

	"github.com/kbukum/autowire/di"
	"github.com/kbukum/autowire/errors"
)

func newContainer(t *testing.T, tree interface{}) *di.UnifiedContainer {
	t.Helper()
	c := di.NewContainer()
	if err := c.RegisterSingleton(DefaultConfigAlias, tree); err != nil {
		t.Fatalf("RegisterSingleton failed: %v", err)
	}
	return c
}

func TestReadConfig(t *testing.T) {
	c := newContainer(t, map[string]interface{}{
		"foo": map[string]interface{}{"bar": "abc"},
	})

	val, err := ReadConfig("foo", "bar").Read(c)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if val != "abc" {
		t.Errorf("expected abc, got %v", val)
	}
}

func TestReadConfigWholeTree(t *testing.T) {
	tree := map[string]interface{}{"foo": 1}
	c := newContainer(t, tree)

	val, err := ReadConfig().Read(c)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if m, ok := val.(map[string]interface{}); !ok || m["foo"] != 1 {
		t.Errorf("expected whole tree, got %v", val)
	}
}

func TestReadConfigTraversal(t *testing.T) {
	c := newContainer(t, map[string]interface{}{
		"yaml":  map[interface{}]interface{}{"port": 8080},
		"typed": map[string]int{"retries": 3},
		"list":  []interface{}{"first", map[string]interface{}{"name": "second"}},
	})

	tests := []struct {
		name string
		keys []string
		want interface{}
	}{
		{"interface keyed map", []string{"yaml", "port"}, 8080},
		{"typed map", []string{"typed", "retries"}, 3},
		{"list index", []string{"list", "0"}, "first"},
		{"nested through list", []string{"list", "1", "name"}, "second"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadConfig(tc.keys...).Read(c)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestReadConfigMissing(t *testing.T) {
	c := newContainer(t, map[string]interface{}{
		"foo":  map[string]interface{}{"bar": "abc"},
		"list": []interface{}{"only"},
	})

	tests := []struct {
		name string
		keys []string
		msg  string
	}{
		{"missing key", []string{"foo", "missing"}, "Failed to read config: foo -> missing"},
		{"scalar intermediate", []string{"foo", "bar", "baz"}, "Failed to read config: foo -> bar -> baz"},
		{"unknown root", []string{"unknown"}, "Failed to read config: unknown"},
		{"index out of range", []string{"list", "3"}, "Failed to read config: list -> 3"},
		{"non numeric index", []string{"list", "first"}, "Failed to read config: list -> first"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadConfig(tc.keys...).Read(c)
			if !errors.HasCode(err, errors.ErrCodeMissingConfig) {
				t.Fatalf("expected MISSING_CONFIG, got %v", err)
			}
			appErr, _ := errors.AsAppError(err)
			if appErr.Message != tc.msg {
				t.Errorf("expected %q, got %q", tc.msg, appErr.Message)
			}
		})
	}
}

func TestReadConfigMissingAlias(t *testing.T) {
	_, err := ReadConfig("foo").Read(di.NewContainer())
	if !errors.HasCode(err, errors.ErrCodeMissingConfig) {
		t.Fatalf("expected MISSING_CONFIG, got %v", err)
	}
}

func TestSetDefaultConfigAlias(t *testing.T) {
	defer SetDefaultConfigAlias(DefaultConfigAlias)

	before := ReadConfig("foo")
	SetDefaultConfigAlias("settings")
	after := ReadConfig("foo")

	if before.Alias() != DefaultConfigAlias {
		t.Errorf("expected existing reader to keep %q, got %q", DefaultConfigAlias, before.Alias())
	}
	if after.Alias() != "settings" {
		t.Errorf("expected new reader to use settings, got %q", after.Alias())
	}

	c := di.NewContainer()
	_ = c.RegisterSingleton("settings", map[string]interface{}{"foo": "from-settings"})
	val, err := after.Read(c)
	if err != nil || val != "from-settings" {
		t.Errorf("unexpected Read result %v (%v)", val, err)
	}
}

func TestReaderFactory(t *testing.T) {
	c := newContainer(t, map[string]interface{}{
		"mail": map[string]interface{}{"sender": "noreply@acme.io"},
	})
	if err := c.Register("$sender", ReadConfig("mail", "sender").Factory()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	val, err := c.Get("$sender")
	if err != nil || val != "noreply@acme.io" {
		t.Errorf("unexpected Get result %v (%v)", val, err)
	}
}

func TestInjectAliasArray(t *testing.T) {
	c := newContainer(t, map[string]interface{}{
		"foo": map[string]interface{}{"bar": []interface{}{"abc", "def"}},
	})
	abc := &struct{ name string }{"abc"}
	def := &struct{ name string }{"def"}
	_ = c.RegisterSingleton("abc", abc)
	_ = c.RegisterSingleton("def", def)

	got, err := InjectAliasArray("foo", "bar").Resolve(c)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(got) != 2 || got[0] != abc || got[1] != def {
		t.Errorf("expected [abc def] instances in order, got %v", got)
	}
}

func TestInjectAliasArrayStringSlice(t *testing.T) {
	c := newContainer(t, map[string]interface{}{"handlers": []string{"one"}})
	_ = c.RegisterSingleton("one", 1)

	got, err := InjectAliasArray("handlers").Resolve(c)
	if err != nil || len(got) != 1 || got[0] != 1 {
		t.Errorf("unexpected Resolve result %v (%v)", got, err)
	}
}

func TestInjectAliasArrayErrors(t *testing.T) {
	c := newContainer(t, map[string]interface{}{
		"scalar": "abc",
		"mixed":  []interface{}{"abc", 7},
		"absent": []interface{}{"nowhere"},
	})

	if _, err := InjectAliasArray("unknown").Resolve(c); !errors.HasCode(err, errors.ErrCodeMissingConfig) {
		t.Errorf("expected MISSING_CONFIG, got %v", err)
	}
	for _, key := range []string{"scalar", "mixed"} {
		if _, err := InjectAliasArray(key).Resolve(c); !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("%s: expected INVALID_CONFIG, got %v", key, err)
		}
	}
	if _, err := InjectAliasArray("absent").Resolve(c); !stderrors.Is(err, di.ErrNotRegistered) {
		t.Errorf("expected ErrNotRegistered, got %v", err)
	}
}

func TestAliasArrayFactory(t *testing.T) {
	c := newContainer(t, map[string]interface{}{"list": []interface{}{"a"}})
	_ = c.RegisterSingleton("a", "A")
	_ = c.Register("$list", InjectAliasArray("list").Factory())

	val, err := c.Get("$list")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	items, ok := val.([]interface{})
	if !ok || len(items) != 1 || items[0] != "A" {
		t.Errorf("unexpected list %v", val)
	}
}
