package catalog

import (
	"testing"
)

func TestAll(t *testing.T) {
	cmds := All()
	if len(cmds) != 18 {
		t.Fatalf("expected 18 commands, got %d", len(cmds))
	}

	seen := make(map[string]bool)
	for _, c := range cmds {
		info := c.Info()
		if seen[info.Action()] {
			t.Errorf("duplicate command %s", info.Action())
		}
		seen[info.Action()] = true

		if _, err := c.Params(); err != nil {
			t.Errorf("%s: invalid parameter surface: %v", info.Action(), err)
		}
		if info.Synopsis == "" {
			t.Errorf("%s: missing synopsis", info.Action())
		}
		if info.PassThru != "" {
			specs, _ := c.Params()
			found := false
			for _, s := range specs {
				if s.Matches(info.PassThru) {
					found = true
				}
			}
			if !found {
				t.Errorf("%s: PassThru parameter %s not declared", info.Action(), info.PassThru)
			}
		}
	}

	for i := 1; i < len(cmds); i++ {
		a, b := cmds[i-1].Info(), cmds[i].Info()
		if a.Service > b.Service || (a.Service == b.Service && a.Name > b.Name) {
			t.Errorf("commands out of order: %s before %s", a.Action(), b.Action())
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "CreateAssessment", want: "auditmanager:CreateAssessment"},
		{name: "createassessment", want: "auditmanager:CreateAssessment"},
		{name: "auditmanager:GetAccountStatus", want: "auditmanager:GetAccountStatus"},
		{name: "IOTDEVICEADVISOR:startsuiterun", want: "iotdeviceadvisor:StartSuiteRun"},
		{name: "iotdeviceadvisor:CreateAssessment", wantErr: true},
		{name: "NoSuchOperation", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Lookup(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", c.Info().Action())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := c.Info().Action(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
