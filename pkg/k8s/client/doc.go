// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package client provides a lazily built, process-wide Kubernetes clientset.
//
// The clientset is only needed when inventory is read from a ConfigMap
// (cm://namespace/name). GetKubeClient builds it once with sync.Once from
// $KUBECONFIG, ~/.kube/config or the in-cluster service account;
// GetKubeClientWithConfig builds an uncached clientset for an explicit path.
package client
