package v1alpha1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestAccount_DeepCopy(t *testing.T) {
	now := metav1.NewTime(time.Now())
	in := &Account{
		ObjectMeta: metav1.ObjectMeta{Name: "a1", Labels: map[string]string{"team": "lab"}},
		Spec:       AccountSpec{Email: "a@lab.example", Roles: []string{RoleAdmin}},
		Status:     AccountStatus{Active: true, LastLogin: &now},
	}

	out := in.DeepCopy()
	assert.Equal(t, in, out)

	out.Spec.Roles[0] = RoleEditor
	out.Labels["team"] = "other"
	assert.Equal(t, RoleAdmin, in.Spec.Roles[0])
	assert.Equal(t, "lab", in.Labels["team"])
	assert.NotSame(t, in.Status.LastLogin, out.Status.LastLogin)

	var nilAccount *Account
	assert.Nil(t, nilAccount.DeepCopy())
}

func TestAccount_HasRole(t *testing.T) {
	a := &Account{Spec: AccountSpec{Roles: []string{RoleEditor}}}
	assert.True(t, a.HasRole(RoleEditor))
	assert.False(t, a.HasRole(RoleAdmin))
}
