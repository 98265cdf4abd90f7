package ifrange

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_Hierarchical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
		want []string
	}{
		{
			name: "unit only",
			expr: "Gi0/[1-3]",
			want: []string{"Gi0/1", "Gi0/2", "Gi0/3"},
		},
		{
			name: "unit and module",
			expr: "Gi1/0/[1-4]",
			want: []string{"Gi1/0/1", "Gi1/0/2", "Gi1/0/3", "Gi1/0/4"},
		},
		{
			name: "unit module and port",
			expr: "Te1/0/1/[1-2]",
			want: []string{"Te1/0/1/1", "Te1/0/1/2"},
		},
		{
			name: "single element range",
			expr: "Fa0/[7-7]",
			want: []string{"Fa0/7"},
		},
		{
			name: "surrounding whitespace",
			expr: "  Gi0/[1-2] ",
			want: []string{"Gi0/1", "Gi0/2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Expand(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand_HierarchicalCountAndShape(t *testing.T) {
	t.Parallel()

	got, err := Expand("Gi0/[1-9]")
	require.NoError(t, err)
	require.Len(t, got, 9)
	for i, name := range got {
		assert.Equal(t, fmt.Sprintf("Gi0/%d", i+1), name)
	}
}

func TestExpand_Vlan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		expr      string
		wantCount int
		wantFirst string
		wantLast  string
	}{
		{name: "range", expr: "vlan[10-20]", wantCount: 11, wantFirst: "vlan10", wantLast: "vlan20"},
		{name: "range with space", expr: "vlan [1-3]", wantCount: 3, wantFirst: "vlan1", wantLast: "vlan3"},
		{name: "upper case", expr: "VLAN[100-101]", wantCount: 2, wantFirst: "vlan100", wantLast: "vlan101"},
		{name: "single", expr: "vlan 5", wantCount: 1, wantFirst: "vlan5", wantLast: "vlan5"},
		{name: "single no space", expr: "Vlan4094", wantCount: 1, wantFirst: "vlan4094", wantLast: "vlan4094"},
		{name: "full range", expr: "vlan[1-4094]", wantCount: 4094, wantFirst: "vlan1", wantLast: "vlan4094"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Expand(tt.expr)
			require.NoError(t, err)
			require.Len(t, got, tt.wantCount)
			assert.Equal(t, tt.wantFirst, got[0])
			assert.Equal(t, tt.wantLast, got[len(got)-1])
		})
	}
}

func TestExpand_LargestRange(t *testing.T) {
	t.Parallel()

	got, err := Expand("Gi0/[1-1024]")
	require.NoError(t, err)
	assert.Len(t, got, 1024)

	_, err = Expand("Gi0/[0-1024]")
	assert.ErrorIs(t, err, ErrInvalidRangeFormat)
}

func TestExpand_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expr    string
		wantErr error
	}{
		{name: "vlan zero", expr: "vlan[0-5]", wantErr: ErrInvalidVlanRange},
		{name: "vlan above max", expr: "vlan[4000-4095]", wantErr: ErrInvalidVlanRange},
		{name: "single vlan above max", expr: "vlan 5000", wantErr: ErrInvalidVlanRange},
		{name: "single vlan zero", expr: "vlan0", wantErr: ErrInvalidVlanRange},
		{name: "vlan reversed", expr: "vlan[20-10]", wantErr: ErrInvalidVlanRange},
		{name: "hierarchical reversed", expr: "Gi0/[9-1]", wantErr: ErrInvalidRangeFormat},
		{name: "no brackets", expr: "Gi0/1", wantErr: ErrInvalidRangeFormat},
		{name: "hierarchical too large", expr: "Gi0/[1-2000000000]", wantErr: ErrInvalidRangeFormat},
		{name: "garbage", expr: "eth0", wantErr: ErrInvalidRangeFormat},
		{name: "empty", expr: "", wantErr: ErrInvalidRangeFormat},
		{name: "too many segments", expr: "Gi1/0/1/2/[1-2]", wantErr: ErrInvalidRangeFormat},
		{name: "trailing text", expr: "Gi0/[1-2]x", wantErr: ErrInvalidRangeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Expand(tt.expr)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
			assert.Contains(t, err.Error(), fmt.Sprintf("%q", tt.expr))
		})
	}
}

func TestExpandNormalized(t *testing.T) {
	t.Parallel()

	got, err := ExpandNormalized("Gi1/0/[1-2]")
	require.NoError(t, err)
	assert.Equal(t, []string{"GigabitEthernet1/0/1", "GigabitEthernet1/0/2"}, got)

	got, err = ExpandNormalized("vlan[10-11]")
	require.NoError(t, err)
	assert.Equal(t, []string{"vlan10", "vlan11"}, got)

	_, err = ExpandNormalized("bogus")
	assert.ErrorIs(t, err, ErrInvalidRangeFormat)
}
