package conf

import "testing"

func mustJSON(t *testing.T, src string) Value {
	t.Helper()
	v, err := ParseJSON([]byte(src))
	if err != nil {
		t.Fatalf("ParseJSON(%s) failed: %v", src, err)
	}
	return v
}

func TestSubset_Objects(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{
			name: "list containment",
			a:    `{"clients":[1,2]}`,
			b:    `{"clients":[1,2,4]}`,
			want: true,
		},
		{
			name: "missing list element",
			a:    `{"clients":[1,5]}`,
			b:    `{"clients":[1,2,4]}`,
			want: false,
		},
		{
			name: "scalar mismatch",
			a:    `{"tls":true}`,
			b:    `{"tls":false}`,
			want: false,
		},
		{
			name: "scalar match with extra superset keys",
			a:    `{"tls":true}`,
			b:    `{"tls":true,"clients":[1,2]}`,
			want: true,
		},
		{
			name: "key only in subset",
			a:    `{"tls":true,"pipeline":1}`,
			b:    `{"tls":true}`,
			want: false,
		},
		{
			name: "list ordering and multiplicity ignored",
			a:    `{"data_sizes":[512,64,64]}`,
			b:    `{"data_sizes":[64,128,512]}`,
			want: true,
		},
		{
			name: "list vs scalar type mismatch",
			a:    `{"clients":[1]}`,
			b:    `{"clients":1}`,
			want: false,
		},
		{
			name: "scalar vs list type mismatch",
			a:    `{"clients":1}`,
			b:    `{"clients":[1]}`,
			want: false,
		},
		{
			name: "numeric equality across literals",
			a:    `{"ratio":1.0}`,
			b:    `{"ratio":1}`,
			want: true,
		},
		{
			name: "nested object exact equality",
			a:    `{"server":{"port":6379}}`,
			b:    `{"server":{"port":6379}}`,
			want: true,
		},
		{
			name: "nested object no recursive subset descent",
			a:    `{"server":{"port":6379}}`,
			b:    `{"server":{"port":6379,"bind":"::1"}}`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Subset(mustJSON(t, tt.a), mustJSON(t, tt.b))
			if got != tt.want {
				t.Errorf("Subset(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSubset_Arrays(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{
			name: "each object covered by some superset object",
			a:    `[{"clients":[1]}]`,
			b:    `[{"clients":[1,2]},{"other":1}]`,
			want: true,
		},
		{
			name: "order independent",
			a:    `[{"tls_mode":"yes"},{"clients":[4]}]`,
			b:    `[{"clients":[4,8]},{"tls_mode":"yes","extra":1}]`,
			want: true,
		},
		{
			name: "one object uncovered",
			a:    `[{"clients":[1]},{"clients":[16]}]`,
			b:    `[{"clients":[1,2]}]`,
			want: false,
		},
		{
			name: "empty subset array",
			a:    `[]`,
			b:    `[{"clients":[1]}]`,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Subset(mustJSON(t, tt.a), mustJSON(t, tt.b))
			if got != tt.want {
				t.Errorf("Subset(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSubset_ShapeMismatch(t *testing.T) {
	obj := mustJSON(t, `{"clients":[1]}`)
	arr := mustJSON(t, `[{"clients":[1]}]`)

	if Subset(obj, arr) {
		t.Error("object vs array should never be a subset")
	}
	if Subset(arr, obj) {
		t.Error("array vs object should never be a subset")
	}
}

func TestSubset_Reflexive(t *testing.T) {
	docs := []string{
		`{}`,
		`{"clients":[1,2,4],"tls_mode":"yes","io-threads":8}`,
		`[{"data_sizes":[64,512],"cluster_mode":"no"},{"pipeline":16}]`,
		`{"server":{"port":6379,"save":["900","1"]}}`,
	}

	for _, src := range docs {
		v := mustJSON(t, src)
		if !Subset(v, v) {
			t.Errorf("Subset(x, x) = false for %s", src)
		}
	}
}
