package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Account is an admin panel login.
type Account struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   AccountSpec   `json:"spec"`
	Status AccountStatus `json:"status,omitempty"`
}

type AccountSpec struct {
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Roles        []string `json:"roles,omitempty"`
}

type AccountStatus struct {
	Active    bool         `json:"active"`
	LastLogin *metav1.Time `json:"lastLogin,omitempty"`
}

// AccountList contains a list of Account
type AccountList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []*Account `json:"items"`
}

// HasRole reports whether the account carries role.
func (in *Account) HasRole(role string) bool {
	for _, r := range in.Spec.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DeepCopyInto copies all properties into another Account
func (in *Account) DeepCopyInto(out *Account) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	out.Spec = in.Spec
	if in.Spec.Roles != nil {
		out.Spec.Roles = make([]string, len(in.Spec.Roles))
		copy(out.Spec.Roles, in.Spec.Roles)
	}
	out.Status = in.Status
	if in.Status.LastLogin != nil {
		out.Status.LastLogin = in.Status.LastLogin.DeepCopy()
	}
}

func (in *Account) DeepCopy() *Account {
	if in == nil {
		return nil
	}
	out := new(Account)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object interface
func (in *Account) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

func (in *AccountList) DeepCopy() *AccountList {
	if in == nil {
		return nil
	}
	out := new(AccountList)
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]*Account, len(in.Items))
		for i := range in.Items {
			out.Items[i] = in.Items[i].DeepCopy()
		}
	}
	return out
}

// DeepCopyObject implements runtime.Object interface
func (in *AccountList) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}
