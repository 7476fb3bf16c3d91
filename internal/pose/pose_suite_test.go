package pose_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPose(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Pose Suite")
}
