package deployment

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTargetName(t *testing.T) {
	tests := []struct {
		name   string
		xml    string
		want   string
		wantOK bool
	}{
		{
			name: "partition with most functions",
			xml: `<?xml version="1.0"?>
<DeploymentView>
  <Node name="n1">
    <Partition id="{p1}" name="PartitionA">
      <Function id="{f1}" name="F1"/>
      <Function id="{f2}" name="F2"/>
    </Partition>
    <Partition id="p2" name="PartitionB">
      <Function id="{f3}" name="F3"/>
    </Partition>
  </Node>
</DeploymentView>`,
			want:   "PartitionA",
			wantOK: true,
		},
		{
			name: "tie keeps first",
			xml: `<DeploymentView>
  <Partition name="first"><Function/></Partition>
  <Partition name="second"><Function/></Partition>
</DeploymentView>`,
			want:   "first",
			wantOK: true,
		},
		{
			name: "case-insensitive and namespaced names",
			xml: `<dv:DeploymentView xmlns:dv="urn:dv">
  <dv:partition name="small"><dv:function/></dv:partition>
  <dv:PARTITION name="big"><group><dv:Function/><dv:FUNCTION/></group></dv:PARTITION>
</dv:DeploymentView>`,
			want:   "big",
			wantOK: true,
		},
		{
			name:   "partition without functions still counts",
			xml:    `<DeploymentView><Partition name="only"/></DeploymentView>`,
			want:   "only",
			wantOK: true,
		},
		{
			name: "no partitions",
			xml:  `<DeploymentView><Node/></DeploymentView>`,
		},
		{
			name: "best partition without name",
			xml:  `<DeploymentView><Partition><Function/></Partition><Partition name="b"/></DeploymentView>`,
		},
		{
			name: "malformed xml",
			xml:  `<DeploymentView><Partition name="x">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dv.xml")
			if err := os.WriteFile(path, []byte(tt.xml), 0o644); err != nil {
				t.Fatal(err)
			}
			got, ok := TargetName(path)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("TargetName() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTargetNameMissingFile(t *testing.T) {
	if _, ok := TargetName(filepath.Join(t.TempDir(), "absent.xml")); ok {
		t.Error("expected no target for a missing file")
	}
	if _, ok := TargetName("  "); ok {
		t.Error("expected no target for a blank path")
	}
}
