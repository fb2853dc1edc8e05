// Package catalog registers every command and resolves command names.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gurre/awsbind/command"
	"github.com/gurre/awsbind/services/auditmanager"
	"github.com/gurre/awsbind/services/deviceadvisor"
)

// All returns every registered command ordered by service, then name.
func All() []command.Command {
	cmds := append(auditmanager.Operations(), deviceadvisor.Operations()...)
	sort.SliceStable(cmds, func(i, j int) bool {
		a, b := cmds[i].Info(), cmds[j].Info()
		if a.Service != b.Service {
			return a.Service < b.Service
		}
		return a.Name < b.Name
	})
	return cmds
}

// Lookup finds a command by name, ignoring case. The name may be qualified
// with its service as "service:Name"; an unqualified name must be unique.
func Lookup(name string) (command.Command, error) {
	svc, op, qualified := strings.Cut(name, ":")
	if !qualified {
		op, svc = svc, ""
	}

	var found []command.Command
	for _, c := range All() {
		info := c.Info()
		if !strings.EqualFold(info.Name, op) {
			continue
		}
		if svc != "" && !strings.EqualFold(info.Service, svc) {
			continue
		}
		found = append(found, c)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("unknown command %s", name)
	case 1:
		return found[0], nil
	}
	return nil, fmt.Errorf("command %s is ambiguous, qualify it with a service", name)
}
